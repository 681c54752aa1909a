// Command report prints search analytics straight from the database, for
// operators who want numbers without curl and a running server.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN")
	topN := flag.Int("top", 10, "number of top queries to print")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("no DSN: pass -dsn or set DATABASE_URL")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer db.Close()

	var total, unique, resolved int64
	if err := db.QueryRow(`SELECT count(*) FROM geo.search_logs`).Scan(&total); err != nil {
		log.Fatal("count searches: ", err)
	}
	if err := db.QueryRow(`SELECT count(*) FROM geo.locations`).Scan(&unique); err != nil {
		log.Fatal("count locations: ", err)
	}
	if err := db.QueryRow(`SELECT count(*) FROM geo.search_logs WHERE location_id IS NOT NULL`).Scan(&resolved); err != nil {
		log.Fatal("count resolved: ", err)
	}

	hitRate := 0.0
	if total > 0 {
		hitRate = 100 * float64(resolved) / float64(total)
	}

	fmt.Printf("total searches:   %d\n", total)
	fmt.Printf("unique locations: %d\n", unique)
	fmt.Printf("cache hit rate:   %.1f%%\n", hitRate)

	rows, err := db.Query(`
		SELECT query, count(*) AS n
		FROM geo.search_logs
		GROUP BY query
		ORDER BY n DESC
		LIMIT $1`, *topN)
	if err != nil {
		log.Fatal("top queries: ", err)
	}
	defer rows.Close()

	fmt.Printf("\ntop %d queries:\n", *topN)
	for rows.Next() {
		var query string
		var n int64
		if err := rows.Scan(&query, &n); err != nil {
			log.Fatal("scan row: ", err)
		}
		fmt.Printf("  %6d  %s\n", n, query)
	}
	if err := rows.Err(); err != nil {
		log.Fatal("iterate rows: ", err)
	}
}
