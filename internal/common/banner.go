package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

var bannerArt = []string{
	`88888888888     d8888 888      888      Y88b   d88P`,
	`    888        d88888 888      888       Y88b d88P`,
	`    888       d88P888 888      888        Y88o88P`,
	`    888      d88P 888 888      888         Y888P`,
	`    888     d88P  888 888      888          888`,
	`    888    d88P   888 888      888          888`,
	`    888   d8888888888 888      888          888`,
	`    888  d88P     888 88888888 88888888     888`,
}

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	writeBanner(os.Stderr, config)

	logger.Info().
		Str("version", GetVersion()).
		Str("build", GetBuild()).
		Str("commit", GetGitCommit()).
		Str("environment", config.Environment).
		Str("storage_path", config.Storage.Ledger.Path).
		Msg("Application started")
}

func writeBanner(w io.Writer, config *Config) {
	textColor := banner.ColorBold + banner.ColorWhite
	hr := banner.ColorCyan + strings.Repeat("═", 70) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range bannerArt {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Account Balance Time Series%s\n\n%s\n\n", textColor, banner.ColorReset, hr)

	kvLines := [][2]string{
		{"Version", GetVersion()},
		{"Build", GetBuild()},
		{"Commit", GetGitCommit()},
		{"Environment", config.Environment},
		{"Service URL", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)},
		{"Storage", config.Storage.Ledger.Path},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-16s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 42) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  TALLY - SHUTTING DOWN%s\n%s\n\n",
		hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)

	logger.Info().Msg("Application shutting down")
}
