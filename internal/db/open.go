package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config selects a local sqlite file or a remote libsql database. Url wins
// when both are set.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Empty() bool {
	return c.File == "" && c.Url == ""
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url != "" {
		return c.openRemote()
	}
	if c.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}

	conn, err := sql.Open("sqlite", c.File)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	conn.SetMaxOpenConns(1)
	_, err = conn.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (c Config) openRemote() (*sql.DB, error) {
	dsn, err := url.Parse(c.Url)
	if err != nil {
		return nil, fmt.Errorf("parse libsql url: %w", err)
	}
	if c.AuthToken != "" {
		query := dsn.Query()
		query.Set("authToken", c.AuthToken)
		dsn.RawQuery = query.Encode()
	}
	return sql.Open("libsql", dsn.String())
}
