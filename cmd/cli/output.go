package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarbit/hubclient/internal/query"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// printResult writes value in the format chosen with --output. With --query
// the jq results are written instead, strings unquoted.
func printResult(cmd *cobra.Command, value any, renderText func(out io.Writer)) error {

	out := cmd.OutOrStdout()

	format, _ := cmd.Flags().GetString("output")
	expression, _ := cmd.Flags().GetString("query")

	if len(expression) > 0 {
		variables := map[string]any{}
		if hubClient != nil {
			variables["$user_id"] = int(hubClient.UserID())
		}

		results, err := query.Apply(expression, value, variables)
		if err != nil {
			return err
		}

		for _, result := range results {
			if s, ok := result.(string); ok {
				fmt.Fprintln(out, s)
				continue
			}
			data, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode query result: %w", err)
			}
			fmt.Fprintln(out, string(data))
		}
		return nil
	}

	switch strings.ToLower(format) {
	case "", outputText:
		renderText(out)
		return nil
	case outputJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case outputYAML:
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(value)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", outputText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringP("query", "q", "", "jq expression applied to the result, $user_id is the logged in user")
}
