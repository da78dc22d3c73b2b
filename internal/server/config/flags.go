package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/finlink/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gateway bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis URL
//	-s string   JWT HMAC secret
//	-k string   secret backend (secretsmanager, s3, file)
//	-cert string  certificate secret identifier
//	-key string   private key secret identifier
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3/AWS region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string   log level
//
// Other arguments, including the gateway's "token" subcommand, are ignored
// (flagx.Parse).
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run the gateway")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "session token secret")
	fs.StringVar(&config.SecretBackend, "k", config.SecretBackend, "secret backend")
	fs.StringVar(&config.CertSecretName, "cert", config.CertSecretName, "certificate secret identifier")
	fs.StringVar(&config.KeySecretName, "key", config.KeySecretName, "private key secret identifier")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3/AWS region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := flagx.Parse(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
