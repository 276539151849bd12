package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"webshop/internal/models"
	"webshop/internal/search"
	"webshop/internal/services"
)

type application struct {
	infoLog   *log.Logger
	errorLog  *log.Logger
	jwtSecret []byte
	users     *services.UserService
	products  *services.ProductService
	cart      *services.CartService
	orders    *services.OrderService
	favorites *services.FavoriteService
	comments  *services.CommentService
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI environment variable not found")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable not found")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "webshop"
	}

	addr := flag.String("addr", ":4000", "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}
	infoLog.Println("Connected to database")

	db := models.NewMongoDB(client.Database(dbName))
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	app := &application{
		infoLog:   infoLog,
		errorLog:  errorLog,
		jwtSecret: []byte(secret),
		users:     services.NewUserService(db, errorLog),
		products:  services.NewProductService(db, db, search.NewRanker(), errorLog),
		cart:      services.NewCartService(db, db, errorLog),
		orders:    services.NewOrderService(db, db, errorLog),
		favorites: services.NewFavoriteService(db, db, errorLog),
		comments:  services.NewCommentService(db, db, errorLog),
	}

	srv := &http.Server{
		Addr:     *addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("Starting web shop API on %s", *addr)
	err = srv.ListenAndServe()
	errorLog.Fatal(err)
}
