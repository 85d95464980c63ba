package config

import "time"

// DB holds the database configuration settings.
type DB struct {
	Extras        string
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	Path          string // sqlite database file, ":memory:" for tests
	GormEngine    string // sqlite, mysql or postgres
	SlowThreshold time.Duration
}

// Mongo holds the mongodb configuration settings.
type Mongo struct {
	URI      string
	Database string
	Timeout  time.Duration
}
