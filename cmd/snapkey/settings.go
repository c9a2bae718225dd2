package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/dshills/snapkey/internal/settings"
)

func newSettingsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or edit the settings shared with the companion panel",
	}
	store := func() *settings.Store {
		return settings.NewStore(g.cfg.Settings.Path, settings.WithLogger(g.logger.Named("settings")))
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := store().Load()
			if err != nil {
				return err
			}
			doc, err := settings.Encode(cur)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(pretty.Pretty(doc))
			return err
		},
	}

	set := &cobra.Command{
		Use:   "set <field> <json>",
		Short: "Validate and write one field",
		Example: `  snapkey settings set gridWidth 5
  snapkey settings set useCompMode true
  snapkey settings set clipboardAnchor '{"x":0.5,"y":0}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store()
			if _, err := st.Load(); err != nil {
				return err
			}
			if _, err := st.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], st.Path())
			return nil
		},
	}

	fields := &cobra.Command{
		Use:   "fields",
		Short: "List the known fields",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(settings.Fields(), "\n"))
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), g.cfg.Settings.Path)
		},
	}

	cmd.AddCommand(show, set, fields, path)
	return cmd
}
