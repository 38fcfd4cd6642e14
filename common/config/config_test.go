package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "admin", Password: "secret", Database: "marketing", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=admin password=secret dbname=marketing sslmode=disable", c.GetDSN())
}

func TestGetDSN_QuotesPassword(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "admin", Password: "it's a pass", Database: "m", SSLMode: "disable"}
	assert.Contains(t, c.GetDSN(), `password='it\'s a pass'`)

	c.Password = ""
	assert.Contains(t, c.GetDSN(), "password=''")
}

func TestGetURL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "admin", Password: "p@ss", Database: "marketing", SSLMode: "require"}
	assert.Equal(t, "postgres://admin:p%40ss@db:5433/marketing?sslmode=require", c.GetURL())
}
