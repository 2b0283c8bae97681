package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/fatih/color"

	"github.com/MKhiriev/go-vault-keeper/internal/app"
	"github.com/MKhiriev/go-vault-keeper/internal/client"
	"github.com/MKhiriev/go-vault-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli := client.NewCLI()
	cli.SetBuildInfo(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	code := run(ctx, cli, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code. Key material
// held by memguard is destroyed before it returns.
func run(ctx context.Context, cli client.Client, args []string, stderr io.Writer) int {
	defer memguard.Purge()

	if err := cli.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "%s %s\n", color.RedString("✗"), app.UserMessage(err))
		return 1
	}
	return 0
}
