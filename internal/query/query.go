package query

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/itchyny/gojq"
	"github.com/sirupsen/logrus"
)

// Apply evaluates a jq expression against value and returns every result
// it emits. Typed values are first converted to plain JSON values so that
// struct tags decide the field names.
func Apply(expression string, value any, variables map[string]any) ([]any, error) {
	parsed, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq expression: %s, error: %w", expression, err)
	}

	// Get the variable names & values in a single pass:
	names, values := getVariableNamesAndValues(variables)

	code, err := gojq.Compile(parsed, gojq.WithVariables(names))
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %s, error: %w", expression, err)
	}

	input, err := Normalize(value)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(input, values...)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}

		// If there's an error from the jq engine, report it
		if errVal, isErr := result.(error); isErr {
			return nil, fmt.Errorf("jq evaluation error: %w", errVal)
		}
		results = append(results, result)
	}

	logrus.WithFields(logrus.Fields{
		"expression": expression,
		"results":    len(results),
	}).Debugln("Evaluated jq expression")

	return results, nil
}

// Normalize converts value into the map/slice/float64 shapes gojq accepts.
func Normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query input: %w", err)
	}

	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("failed to decode query input: %w", err)
	}
	return normalized, nil
}

// getVariableNamesAndValues constructs two slices, where 'names[i]' matches 'values[i]'.
// Names are sorted so the compiled program is stable.
func getVariableNamesAndValues(vars map[string]any) ([]string, []any) {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	values := make([]any, 0, len(vars))
	for _, name := range names {
		values = append(values, vars[name])
	}
	return names, values
}
