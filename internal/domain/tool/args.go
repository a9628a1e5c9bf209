package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/domain/llm"
)

// Call is one model-requested tool invocation with its correlation id and the
// raw, untrusted argument payload.
type Call struct {
	ID   string
	Name string
	Args map[string]any
}

// ParseToolCall converts a model-emitted tool call into the domain Call.
// Malformed argument JSON is not fatal: the dispatcher reports it back to the
// model as text.
func ParseToolCall(call llm.ToolCall) (Call, error) {
	var args map[string]any
	if len(call.Function.Arguments) > 0 {
		if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
			return Call{}, fmt.Errorf("tool %s: arguments are not a JSON object: %w", call.Function.Name, err)
		}
	}
	return Call{
		ID:   call.ID,
		Name: call.Function.Name,
		Args: args,
	}, nil
}

// argError reports a missing or malformed model-emitted argument. It is
// always rendered as text for the model, never propagated.
type argError struct {
	tool   string
	reason string
}

func (e *argError) Error() string {
	return fmt.Sprintf("%s: %s", e.tool, e.reason)
}

type findArgs struct {
	Query string
}

type createArgs struct {
	Fields item.Fields
}

type updateArgs struct {
	Identifier string
	BySKU      bool
	Fields     item.Fields
}

type deleteArgs struct {
	Identifier string
	BySKU      bool
}

func parseFindArgs(args map[string]any) (findArgs, error) {
	query, err := stringArg(ToolFindItem, args, "query", true)
	if err != nil {
		return findArgs{}, err
	}
	return findArgs{Query: query}, nil
}

func parseCreateArgs(args map[string]any) (createArgs, error) {
	fields, err := fieldArgs(ToolCreateItem, args)
	if err != nil {
		return createArgs{}, err
	}
	return createArgs{Fields: fields}, nil
}

func parseUpdateArgs(args map[string]any) (updateArgs, error) {
	identifier, err := stringArg(ToolUpdateItem, args, "identifier", true)
	if err != nil {
		return updateArgs{}, err
	}
	bySKU, err := boolArg(ToolUpdateItem, args, "identifier_is_sku")
	if err != nil {
		return updateArgs{}, err
	}
	fields, err := fieldArgs(ToolUpdateItem, args)
	if err != nil {
		return updateArgs{}, err
	}
	return updateArgs{Identifier: identifier, BySKU: bySKU, Fields: fields}, nil
}

func parseDeleteArgs(args map[string]any) (deleteArgs, error) {
	name, err := stringArg(ToolDeleteItem, args, "name", false)
	if err != nil {
		return deleteArgs{}, err
	}
	sku, err := stringArg(ToolDeleteItem, args, "sku", false)
	if err != nil {
		return deleteArgs{}, err
	}
	switch {
	case sku != "":
		return deleteArgs{Identifier: sku, BySKU: true}, nil
	case name != "":
		return deleteArgs{Identifier: name, BySKU: false}, nil
	default:
		return deleteArgs{}, &argError{tool: ToolDeleteItem, reason: "either name or sku is required"}
	}
}

// fieldArgs validates the shared create/update field set. The checks repeat
// what the declared schema already promises because the model may emit
// arguments that violate it.
func fieldArgs(tool string, args map[string]any) (item.Fields, error) {
	name, err := stringArg(tool, args, "name", true)
	if err != nil {
		return item.Fields{}, err
	}
	description, err := stringArg(tool, args, "description", true)
	if err != nil {
		return item.Fields{}, err
	}
	sku, err := stringArg(tool, args, "sku", true)
	if err != nil {
		return item.Fields{}, err
	}
	price, err := priceArg(tool, args, "price")
	if err != nil {
		return item.Fields{}, err
	}
	return item.Fields{
		Name:        name,
		Description: description,
		Price:       price,
		SKU:         sku,
	}, nil
}

func stringArg(tool string, args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", &argError{tool: tool, reason: key + " is required"}
		}
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", &argError{tool: tool, reason: key + " must be a string"}
	}
	value = strings.TrimSpace(value)
	if required && value == "" {
		return "", &argError{tool: tool, reason: key + " must not be empty"}
	}
	return value, nil
}

func boolArg(tool string, args map[string]any, key string) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, &argError{tool: tool, reason: key + " must be a boolean"}
	}
	return value, nil
}

// priceArg accepts a JSON number or a numeric string; models emit both.
func priceArg(tool string, args map[string]any, key string) (decimal.Decimal, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return decimal.Zero, &argError{tool: tool, reason: key + " is required"}
	}

	var price decimal.Decimal
	switch v := raw.(type) {
	case float64:
		price = decimal.NewFromFloat(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, &argError{tool: tool, reason: key + " must be a number"}
		}
		price = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, &argError{tool: tool, reason: key + " must be a number"}
		}
		price = parsed
	default:
		return decimal.Zero, &argError{tool: tool, reason: key + " must be a number"}
	}

	if !price.IsPositive() {
		return decimal.Zero, &argError{tool: tool, reason: key + " must be a positive number"}
	}
	return price, nil
}
