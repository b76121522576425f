// cmd/tools/capability-registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"bharat-seva/pkg/registry"
)

const defaultPath = "pkg/registry/capabilities.json"

func main() {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	listPath := listCmd.String("path", defaultPath, "Path to registry file")

	updatePath := updateCmd.String("path", defaultPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Capability ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, rateLimit, timeout, chain, ...)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")

	exportPath := exportCmd.String("path", "configs/capabilities.json", "Where to write the embedded registry")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*listPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		listCapabilities(os.Stdout, reg)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateCapability(*updatePath, *idUpdate, *field, *value, time.Now()); err != nil {
			fmt.Printf("Error updating capability: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated capability %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		n, err := validateRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d capabilities.\n", n)

	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := writeFile(*exportPath, registry.DefaultBytes()); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote embedded registry to %s\n", *exportPath)

	case "help":
		fallthrough
	default:
		help()
	}
}

func listCapabilities(w io.Writer, reg *registry.CapabilityRegistry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMETHOD\tROUTES\tCHAIN\tLIMIT/MIN\tTIMEOUT\tSTATUS")
	for _, c := range reg.Capabilities {
		chain := c.ModelChain
		if chain == "" {
			chain = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%d\t%s\t%s\n",
			c.ID, c.Method, c.Routes(), chain, c.RateLimitPerMinute, c.Timeout, c.ImplementationStatus)
	}
	tw.Flush()
}

func updateCapability(path, id, field, value string, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Capabilities {
		if reg.Capabilities[i].ID != id {
			continue
		}
		found = true
		c := &reg.Capabilities[i]
		switch field {
		case "status":
			c.ImplementationStatus = value
		case "version":
			c.Version = value
		case "displayName":
			c.DisplayName = value
		case "description":
			c.Description = value
		case "category":
			c.Category = value
		case "route":
			c.Route = value
		case "chain":
			c.ModelChain = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			c.Timeout = value
		case "rateLimit":
			limit, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid rateLimit value: %w", err)
			}
			c.RateLimitPerMinute = limit
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("capability with ID %s not found", id)
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update would leave registry invalid: %w", err)
	}

	reg.LastUpdated = now.UTC().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}
	return len(reg.Capabilities), nil
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.CapabilityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: capability-registry <command> [flags]

Commands:
  list      Print every capability with its routes, chain and limits
  update    Update an existing capability's field
  validate  Validate the registry file and compile every schema
  export    Write the embedded registry to a file
  help      Show this help message

Examples:
  capability-registry list
  capability-registry update -id send-whatsapp -field rateLimit -value 3
  capability-registry validate -path pkg/registry/capabilities.json

Use 'capability-registry <command> -h' for more information about a command.

`)
}
