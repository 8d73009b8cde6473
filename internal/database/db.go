package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// dsn builds the MySQL connection string.
//
//   - parseTime=true maps DATETIME columns to time.Time.
//   - loc=UTC keeps every stored and scanned timestamp in UTC.
//   - clientFoundRows=true makes RowsAffected report matched rows rather
//     than changed rows.  The hold check-and-set in the slot repository
//     relies on this: a participant re-acquiring their own hold within
//     the same second writes identical values, and without this flag the
//     driver would report 0 and the re-hold would be misread as a loss.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)
}

// Open connects to MySQL, applies pool settings sized for this small
// service, and verifies the connection with a short ping.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
