package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/ccp-go/internal/config"
	"github.com/systmms/ccp-go/pkg/ccp"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check provider connectivity and configuration",
		Long: `Verify that the credential provider is properly configured and reachable.

This command checks:
- Configuration file validity
- Client certificate configuration
- TLS and transport construction
- Provider connectivity

The connectivity probe requests a synthetic object under the configured
application ID; any HTTP response from the provider counts as reachable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			cfg.Logger.Info("Checking ccp configuration...")
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.Logger.Info("✓ Configuration loaded successfully")

			results := make([]CheckHealth, 0)

			opts, err := cfg.ToOptions()
			if err != nil {
				results = append(results, CheckHealth{
					Name:   "options",
					Type:   "config",
					Status: "error",
					Error:  err.Error(),
					Suggestions: []string{
						"Fix ccp.yaml; run 'ccp schema' to inspect the expected structure",
					},
				})
				displayCheckResults(results, verbose)
				return fmt.Errorf("some checks failed")
			}

			results = append(results, CheckHealth{
				Name:    "options",
				Type:    "config",
				Status:  "healthy",
				Message: fmt.Sprintf("Options built from %s", cfg.Path),
			})

			// Check each configured certificate without dialing anything
			results = append(results, checkCertificates(opts)...)

			// Building the client exercises root CA loading and the
			// default TLS transport.
			client, err := ccp.NewClient(opts)
			if err != nil {
				results = append(results, CheckHealth{
					Name:   "client",
					Type:   "tls",
					Status: "error",
					Error:  err.Error(),
					Suggestions: []string{
						"Check 'base_url' and 'root_cas' in ccp.yaml",
					},
				})
			} else {
				defer func() { _ = client.Close() }()
				results = append(results, CheckHealth{
					Name:    "client",
					Type:    "tls",
					Status:  "healthy",
					Message: "Transport ready",
				})
				results = append(results, checkConnectivity(client, opts))
			}

			// Display results
			displayCheckResults(results, verbose)

			// Summary
			healthy, failed, skipped := 0, 0, 0
			for _, result := range results {
				switch result.Status {
				case "healthy":
					healthy++
				case "error":
					failed++
				default:
					skipped++
				}
			}

			fmt.Printf("\nSummary: %d/%d checks passed", healthy, healthy+failed)
			if skipped > 0 {
				fmt.Printf(" (%d skipped)", skipped)
			}
			fmt.Println()

			if failed > 0 {
				return fmt.Errorf("some checks failed")
			}

			cfg.Logger.Info("✓ All systems operational!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show suggestions for failed checks")

	return cmd
}

// CheckHealth represents the outcome of one doctor check
type CheckHealth struct {
	Name        string
	Type        string
	Status      string // healthy, error, skipped
	Error       string
	Message     string
	Suggestions []string
}

// checkCertificates inspects every configured certificate identity. File
// identities are checked for presence; store identities for platform
// support. Neither check loads the certificate, that happens on first use.
func checkCertificates(opts ccp.Options) []CheckHealth {
	results := make([]CheckHealth, 0, len(opts.AppCertificates)+1)

	if opts.Certificate.IsConfigured() {
		results = append(results, checkCertificate("certificate", opts.Certificate))
	}

	appIDs := make([]string, 0, len(opts.AppCertificates))
	for appID := range opts.AppCertificates {
		appIDs = append(appIDs, appID)
	}
	sort.Strings(appIDs)

	for _, appID := range appIDs {
		cert := opts.AppCertificates[appID]
		if !cert.IsConfigured() {
			continue
		}
		name := fmt.Sprintf("certificate[%s]", appID)
		results = append(results, checkCertificate(name, cert))
	}

	return results
}

func checkCertificate(name string, cert ccp.CertificateConfig) CheckHealth {
	health := CheckHealth{Name: name, Type: "file"}
	if cert.Thumbprint != "" {
		health.Type = "store"
	}

	if err := cert.Validate(); err != nil {
		health.Status = "error"
		health.Error = err.Error()
		health.Suggestions = []string{
			"Configure either 'file' or 'thumbprint' for the certificate, not both",
		}
		return health
	}

	if cert.File != "" {
		if _, err := os.Stat(cert.File); err != nil {
			health.Status = "error"
			health.Error = fmt.Sprintf("certificate file not readable: %v", err)
			health.Suggestions = []string{
				fmt.Sprintf("Check the path and permissions of %s", cert.File),
			}
			return health
		}
		if cert.Key != "" {
			if _, err := os.Stat(cert.Key); err != nil {
				health.Status = "error"
				health.Error = fmt.Sprintf("key file not readable: %v", err)
				health.Suggestions = []string{
					fmt.Sprintf("Check the path and permissions of %s", cert.Key),
				}
				return health
			}
		}
		health.Status = "healthy"
		health.Message = "Certificate file present"
		return health
	}

	if runtime.GOOS != "windows" {
		health.Status = "error"
		health.Error = "thumbprint lookup needs the Windows certificate store"
		health.Suggestions = []string{
			"Use a certificate file ('file', optionally 'key') on this platform",
		}
		return health
	}

	health.Status = "healthy"
	health.Message = "Store lookup configured"
	return health
}

// checkConnectivity probes the provider endpoint. Any HTTP response counts
// as reachable, including an authorization denial.
func checkConnectivity(client *ccp.Client, opts ccp.Options) CheckHealth {
	health := CheckHealth{Name: "connectivity", Type: "network"}

	if opts.AppID == "" {
		health.Status = "skipped"
		health.Message = "no app_id configured"
		health.Suggestions = []string{
			"Set 'app_id' in ccp.yaml to enable the connectivity probe",
		}
		return health
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if client.TestConnection(ctx) {
		health.Status = "healthy"
		health.Message = "Provider reachable"
	} else {
		health.Status = "error"
		health.Error = "provider unreachable"
		health.Suggestions = []string{
			"Check 'base_url' in ccp.yaml and network connectivity to the provider host",
		}
	}

	return health
}

// displayCheckResults shows check outcomes in a formatted table
func displayCheckResults(results []CheckHealth, verbose bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "CHECK\tTYPE\tSTATUS\tMESSAGE\n")
	_, _ = fmt.Fprintf(w, "-----\t----\t------\t-------\n")

	for _, result := range results {
		status := result.Status
		message := result.Message
		if result.Error != "" {
			message = result.Error
		}

		// Add status emoji
		switch result.Status {
		case "healthy":
			status = "✓ " + status
		case "error":
			status = "✗ " + status
		default:
			status = "? " + status
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			result.Name, result.Type, status, message)
	}

	_ = w.Flush()

	// Show suggestions if verbose
	if verbose {
		for _, result := range results {
			if result.Status == "healthy" || len(result.Suggestions) == 0 {
				continue
			}
			fmt.Printf("\n%s (%s) suggestions:\n", result.Name, result.Type)
			for _, suggestion := range result.Suggestions {
				fmt.Printf("  • %s\n", suggestion)
			}
		}
	}
}
