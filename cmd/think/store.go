package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/thinkmap/pkg/thoughtfile"
	"github.com/ha1tch/thinkmap/pkg/thoughtstore"
)

func (a *app) openStore() (thoughtstore.Store, error) {
	s, err := thoughtstore.Open(thoughtstore.Kind(a.opts.Editor.Store), a.opts.StorePath(), a.log)
	if err != nil {
		return nil, err
	}
	if d, ok := s.(*thoughtstore.DirStore); ok {
		d.Format = thoughtfile.Format(a.opts.Editor.Format)
	}
	return s, nil
}

func storeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored thoughts",
	}
	cmd.AddCommand(storeListCmd(a), storeImportCmd(a), storeExportCmd(a), storeDeleteCmd(a))
	return cmd
}

func storeListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored thoughts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.List(ctxOf(cmd))
			if err != nil {
				return err
			}
			if len(list) == 0 {
				subtle.Println("  no thoughts stored in " + a.opts.StorePath())
				return nil
			}
			subtle.Printf("  %-36s  %-24s  %5s  %5s  %s\n", "ID", "NAME", "NODES", "CONNS", "UPDATED")
			for _, sum := range list {
				fmt.Printf("  %-36s  %-24s  %5d  %5d  %s\n",
					sum.ID, sum.Name, sum.Nodes, sum.Connections, sum.Updated.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func storeImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Copy thought files into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, path := range args {
				t, err := thoughtfile.ReadFile(path)
				if err != nil {
					return err
				}
				if err := s.Save(ctxOf(cmd), t); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("%s %s -> %s\n", good.Sprint("✓"), path, t.ID)
			}
			return nil
		},
	}
}

func storeExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write a stored thought to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.Load(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			if err := thoughtfile.WriteFile(args[1], t); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s\n", good.Sprint("✓"), args[1])
			return nil
		},
	}
}

func storeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored thoughts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := s.Delete(ctxOf(cmd), id); err != nil {
					return err
				}
				fmt.Printf("%s deleted %s\n", good.Sprint("✓"), id)
			}
			return nil
		},
	}
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
