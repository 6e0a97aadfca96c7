package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barnybug/gosat/services"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <service>...",
		Short: "Run services",
		Long: fmt.Sprintf(`Run one or more services in this process.

Services: %s

With no broker configured the services share an in-process loopback broker,
so "gosat run sat modem" works standalone.`, strings.Join(services.Services(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.SetupBroker(); err != nil {
				return err
			}
			return services.Launch(args)
		},
	}
}
