package tool

import (
	"github.com/invopop/jsonschema"

	"catalog-assistant/internal/domain/llm"
)

// Fixed tool names declared to the model. The dispatch table in dispatch.go
// must stay in lockstep with this set.
const (
	ToolFindItem   = "find_item"
	ToolListItems  = "list_items"
	ToolCreateItem = "create_item"
	ToolUpdateItem = "update_item"
	ToolDeleteItem = "delete_item"
)

// Parameter declaration structs. These describe the schema presented to the
// model; the parsers in args.go re-validate defensively because the model's
// emitted arguments are not guaranteed to honor the declared schema.

type findItemParams struct {
	Query string `json:"query" jsonschema:"required,description=Item name or SKU or keyword to search the catalog for."`
}

type listItemsParams struct{}

type createItemParams struct {
	Name        string  `json:"name" jsonschema:"required,description=Display name of the item."`
	Description string  `json:"description" jsonschema:"required,description=Human readable description."`
	Price       float64 `json:"price" jsonschema:"required,description=Positive price of the item."`
	SKU         string  `json:"sku" jsonschema:"required,description=Stock keeping unit. Unique across the catalog (case-insensitive)."`
}

type updateItemParams struct {
	Identifier      string  `json:"identifier" jsonschema:"required,description=Name or SKU of the item to update."`
	IdentifierIsSKU bool    `json:"identifier_is_sku,omitempty" jsonschema:"description=Set true when identifier is a SKU rather than a name."`
	Name            string  `json:"name" jsonschema:"required,description=New display name."`
	Description     string  `json:"description" jsonschema:"required,description=New description."`
	Price           float64 `json:"price" jsonschema:"required,description=New positive price."`
	SKU             string  `json:"sku" jsonschema:"required,description=New SKU. Must stay unique across the catalog."`
}

type deleteItemParams struct {
	Name string `json:"name,omitempty" jsonschema:"description=Name of the item to delete. Provide name or sku but not both."`
	SKU  string `json:"sku,omitempty" jsonschema:"description=SKU of the item to delete. Provide name or sku but not both."`
}

// Definitions returns the fixed tool declarations presented to the model on
// every turn.
func Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		define(ToolFindItem, "Look up catalog items by name, SKU, or keyword.", schemaFor[findItemParams]()),
		define(ToolListItems, "List every item in the catalog, newest first.", schemaFor[listItemsParams]()),
		define(ToolCreateItem, "Create a new catalog item. Fails when the SKU is already taken.", schemaFor[createItemParams]()),
		define(ToolUpdateItem, "Replace all fields of an existing item, resolved by name or SKU.", schemaFor[updateItemParams]()),
		define(ToolDeleteItem, "Delete an item resolved by name or SKU.", schemaFor[deleteItemParams]()),
	}
}

func define(name, description string, params any) llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func schemaFor[T any]() any {
	reflector := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(&v)
}
