package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yachtexcel/yachtexcel/pkg/docai"
	"github.com/yachtexcel/yachtexcel/pkg/extraction"
	"github.com/yachtexcel/yachtexcel/pkg/fields"
)

// fieldsParseCmd represents the fields parse command
var fieldsParseCmd = &cobra.Command{
	Use:   "parse <response.json>",
	Short: "Map a saved Document AI response to yacht fields",
	Long: `Map a saved Document AI process response to yacht profile fields.

Reads the JSON returned by the processor's :process method from the file
(or stdin when the file is "-") and prints the mapped fields with the
parsed dates and numbers.

Example:
  yachtctl fields parse registry-certificate.json
  yachtctl fields parse -o json - < registry-certificate.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		if err := parseFields(args[0], output, os.Stdout); err != nil {
			fail("Failed to parse fields: %v", err)
		}
	},
}

func init() {
	fieldsCmd.AddCommand(fieldsParseCmd)
	fieldsParseCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func parseFields(path, output string, w io.Writer) error {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	resp, err := docai.ParseResponse(raw)
	if err != nil {
		return err
	}
	result := fields.Map(resp.Entities)
	status := extraction.Status(result)

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"fields": result,
			"values": result.Values(),
			"status": status,
		})
	case "text":
		return writeFieldsTable(w, result, string(status))
	}
	return fmt.Errorf("unknown output format %q", output)
}

func writeFieldsTable(w io.Writer, result fields.Result, status string) error {
	names := make([]string, 0, len(result.Fields))
	for name := range result.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tVENDOR TYPE\tCONFIDENCE")
	for _, name := range names {
		f := result.Fields[name]
		value := fmt.Sprint(f.Value)
		if !f.Parsed {
			value += " (unparsed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", name, value, f.VendorType, f.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, u := range result.Unmapped {
		fmt.Fprintf(w, "unmapped: %s\n", u)
	}
	_, err := fmt.Fprintf(w, "status: %s\n", status)
	return err
}
