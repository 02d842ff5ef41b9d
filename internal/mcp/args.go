package mcp

import (
	"fmt"
	"math"
)

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseTextArg extracts a required string argument that may be empty,
// such as source text.
func parseTextArg(argsMap map[string]interface{}, key string) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		return "", fmt.Errorf("%s parameter is required", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return str, nil
}

// parseIntArgPtr extracts an optional integer argument as a pointer.
// Returns nil if the argument is missing, or a pointer to the int value if present.
// MCP sends numbers as float64; fractional values are rejected.
func parseIntArgPtr(argsMap map[string]interface{}, key string) (*int, error) {
	val, ok := argsMap[key]
	if !ok {
		return nil, nil
	}

	f, ok := val.(float64)
	if !ok {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, fmt.Errorf("%s must be an integer", key)
	}

	result := int(f)
	return &result, nil
}

// parseBoolArg extracts a boolean argument from an MCP arguments map.
// Returns defaultVal if the argument is missing or invalid.
func parseBoolArg(argsMap map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}

	if b, ok := val.(bool); ok {
		return b
	}

	return defaultVal
}
