package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/sponsorboard/internal/config"
	"github.com/fr0stylo/sponsorboard/internal/sponsorclient"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file loaded:", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		exitErr(fmt.Sprintf("load config: %v", err))
	}
	defaultHost := cfg.Server.HostURL
	if defaultHost == "" {
		defaultHost = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	path := flag.String("file", "seed.yaml", "YAML seed file")
	host := flag.String("host", defaultHost, "Sponsors host base URL (or SPONSORS_HOST_URL)")
	token := flag.String("token", cfg.Auth.APIToken, "API token (or SPONSORS_API_TOKEN)")
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout")
	flag.Parse()

	if strings.TrimSpace(*token) == "" {
		exitErr("token is required (or set SPONSORS_API_TOKEN)")
	}

	f, err := os.Open(*path)
	if err != nil {
		exitErr(fmt.Sprintf("open seed file: %v", err))
	}
	file, err := parseSeed(f)
	_ = f.Close()
	if err != nil {
		exitErr(err.Error())
	}

	client := sponsorclient.New(strings.TrimSpace(*host), strings.TrimSpace(*token))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	s := &seeder{api: client, uploader: client, baseDir: filepath.Dir(*path)}
	result, err := s.run(ctx, file)
	if err != nil {
		exitErr(err.Error())
	}
	fmt.Printf("Seeded %d levels, %d sponsors (%d already present)\n", result.LevelsCreated, result.SponsorsCreated, result.SponsorsSkipped)
}

func exitErr(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
