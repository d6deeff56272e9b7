package db

import _ "embed"

// Schema is the Postgres DDL for every table the service touches.
//
//go:embed schema.sql
var Schema string
