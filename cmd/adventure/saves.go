package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-adventure/internal/snapshot"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect saved actor snapshots",
	Long: `Every actor is saved as one JSON record keyed by its id (player1,
enemy1, ... prefixed with the SSH user name for remote sessions).
The --store flag picks which storage is inspected.

Examples:
  adventure saves list
  adventure saves show player1
  adventure saves show alice-player1 --store sqlite
  adventure saves schema`,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved actor ids",
	Args:  cobra.NoArgs,
	Run:   runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the record saved for an actor",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesShow,
}

var savesSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a snapshot record",
	Args:  cobra.NoArgs,
	Run:   runSavesSchema,
}

func init() {
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesSchemaCmd)
}

type idLister interface {
	IDs() ([]string, error)
}

func openSaves() (*env, snapshot.Backend) {
	e, err := openEnv(false)
	if err != nil {
		fail("%v", err)
	}
	backend, err := e.snapshotBackend()
	if err != nil {
		e.close() //nolint:errcheck
		fail("%v", err)
	}
	if backend == nil {
		e.close() //nolint:errcheck
		fail("the memory store keeps nothing between runs; use --store file or sqlite")
	}
	return e, backend
}

func runSavesList(_ *cobra.Command, _ []string) {
	e, backend := openSaves()
	defer e.close() //nolint:errcheck

	lister, ok := backend.(idLister)
	if !ok {
		fail("store %q cannot list records", flagStore)
	}
	ids, err := lister.IDs()
	if err != nil {
		fail("%v", err)
	}
	if len(ids) == 0 {
		fmt.Println("No saves yet.")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

func runSavesShow(_ *cobra.Command, args []string) {
	e, backend := openSaves()
	defer e.close() //nolint:errcheck

	id := args[0]
	data, err := backend.Read(id)
	if errors.Is(err, snapshot.ErrNotFound) {
		fail("no save for %q", id)
	}
	if err != nil {
		fail("%v", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		// Not JSON; show it as stored
		os.Stdout.Write(data) //nolint:errcheck
		fmt.Println()
		fmt.Fprintln(os.Stderr, "Warning: record is not valid JSON and will be ignored on load")
		return
	}
	fmt.Println(out.String())

	rec, err := snapshot.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else if len(rec.Present()) > 0 {
		fmt.Printf("\nFields restored on load: %v\n", rec.Present())
	}
}

func runSavesSchema(_ *cobra.Command, _ []string) {
	data, err := snapshot.Schema()
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(string(data))
}
