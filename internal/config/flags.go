package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"campus-notes-bot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-k string   Telegram bot token
//	-m string   comma-separated moderator user ids
//	-n int      archive chat id (channel backend)
//	-l string   public bot link for the invite text
//	-d string   PostgreSQL DSN
//	-a string   HTTP bind address (e.g., ":10000")
//	-s string   web panel HMAC secret key
//	-t int      web panel token validity, minutes
//	-w string   archive backend: "s3" or "channel"
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-k", "-m", "-n", "-l", "-d", "-a", "-s", "-t", "-w", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BotToken, "k", config.BotToken, "telegram bot token")
	admins := fs.String("m", joinIDs(config.AdminIDs), "comma-separated moderator user ids")
	fs.Int64Var(&config.ArchiveChatID, "n", config.ArchiveChatID, "archive chat id")
	fs.StringVar(&config.BotLink, "l", config.BotLink, "public bot link")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port for the HTTP server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	fs.StringVar(&config.ArchiveBackend, "w", config.ArchiveBackend, "archive backend (s3|channel)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AdminIDs = splitIDs(*admins)
	config.TokenValidityDuration = minutes(*tokenValidity)
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) []int64 {
	if s == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	return ids
}
