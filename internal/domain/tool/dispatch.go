package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/infrastructure/metrics"
)

// Outcome is the result of one tool invocation. Text flows back to the model
// verbatim, success or failure; the model cannot distinguish them
// structurally. Item references the record the invocation most directly
// affected and is only ever used for the caller-facing response envelope.
type Outcome struct {
	Tool string
	Text string
	Item *item.Item
}

type handlerFunc func(ctx context.Context, args map[string]any) Outcome

// Dispatcher routes model-requested tool calls to the catalog operations.
// Every declared tool has exactly one handler; the pairing is asserted by
// tests so the declarations and the dispatch table cannot drift apart.
type Dispatcher struct {
	catalog  *item.Service
	handlers map[string]handlerFunc
	log      zerolog.Logger
}

// NewDispatcher builds the dispatch table over the catalog operations.
func NewDispatcher(catalog *item.Service, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		catalog: catalog,
		log:     log.With().Str("component", "tool-dispatcher").Logger(),
	}
	d.handlers = map[string]handlerFunc{
		ToolFindItem:   d.findItem,
		ToolListItems:  d.listItems,
		ToolCreateItem: d.createItem,
		ToolUpdateItem: d.updateItem,
		ToolDeleteItem: d.deleteItem,
	}
	return d
}

// HandlerNames returns the registered tool names.
func (d *Dispatcher) HandlerNames() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch executes one tool call. Failures of any kind are rendered as text
// so the model always receives a result turn, never a crash.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) Outcome {
	handler, ok := d.handlers[call.Name]
	if !ok {
		d.log.Warn().Str("tool", call.Name).Msg("model requested undeclared tool")
		return Outcome{
			Tool: call.Name,
			Text: fmt.Sprintf("unknown tool %q", call.Name),
		}
	}

	out := handler(ctx, call.Args)
	metrics.RecordToolDispatch(call.Name)
	d.log.Debug().Str("tool", call.Name).Str("call_id", call.ID).Msg("tool dispatched")
	return out
}

func (d *Dispatcher) findItem(ctx context.Context, args map[string]any) Outcome {
	parsed, err := parseFindArgs(args)
	if err != nil {
		return Outcome{Tool: ToolFindItem, Text: err.Error()}
	}

	matches, err := d.catalog.Search(ctx, parsed.Query)
	if err != nil {
		return Outcome{Tool: ToolFindItem, Text: failureText(ToolFindItem, err)}
	}
	if len(matches) == 0 {
		return Outcome{Tool: ToolFindItem, Text: fmt.Sprintf("no items found matching %q", parsed.Query)}
	}

	out := Outcome{Tool: ToolFindItem, Text: renderItems(matches)}
	if len(matches) == 1 {
		out.Item = &matches[0]
	}
	return out
}

func (d *Dispatcher) listItems(ctx context.Context, _ map[string]any) Outcome {
	items, err := d.catalog.ListAll(ctx)
	if err != nil {
		return Outcome{Tool: ToolListItems, Text: failureText(ToolListItems, err)}
	}
	if len(items) == 0 {
		return Outcome{Tool: ToolListItems, Text: "the catalog is empty"}
	}
	return Outcome{Tool: ToolListItems, Text: renderItems(items)}
}

func (d *Dispatcher) createItem(ctx context.Context, args map[string]any) Outcome {
	parsed, err := parseCreateArgs(args)
	if err != nil {
		return Outcome{Tool: ToolCreateItem, Text: err.Error()}
	}

	created, err := d.catalog.Create(ctx, parsed.Fields)
	if err != nil {
		return Outcome{Tool: ToolCreateItem, Text: failureText(ToolCreateItem, err)}
	}
	return Outcome{
		Tool: ToolCreateItem,
		Text: "created item: " + renderItem(*created),
		Item: created,
	}
}

func (d *Dispatcher) updateItem(ctx context.Context, args map[string]any) Outcome {
	parsed, err := parseUpdateArgs(args)
	if err != nil {
		return Outcome{Tool: ToolUpdateItem, Text: err.Error()}
	}

	updated, err := d.catalog.Update(ctx, parsed.Identifier, parsed.BySKU, parsed.Fields)
	if err != nil {
		return Outcome{Tool: ToolUpdateItem, Text: failureText(ToolUpdateItem, err)}
	}
	if updated == nil {
		return Outcome{Tool: ToolUpdateItem, Text: fmt.Sprintf("no item found for %q", parsed.Identifier)}
	}
	return Outcome{
		Tool: ToolUpdateItem,
		Text: "updated item: " + renderItem(*updated),
		Item: updated,
	}
}

func (d *Dispatcher) deleteItem(ctx context.Context, args map[string]any) Outcome {
	parsed, err := parseDeleteArgs(args)
	if err != nil {
		return Outcome{Tool: ToolDeleteItem, Text: err.Error()}
	}

	var deleted bool
	var err2 error
	if parsed.BySKU {
		deleted, err2 = d.catalog.DeleteBySKU(ctx, parsed.Identifier)
	} else {
		deleted, err2 = d.catalog.DeleteByName(ctx, parsed.Identifier)
	}
	if err2 != nil {
		return Outcome{Tool: ToolDeleteItem, Text: failureText(ToolDeleteItem, err2)}
	}
	if !deleted {
		return Outcome{Tool: ToolDeleteItem, Text: fmt.Sprintf("no item found for %q", parsed.Identifier)}
	}
	return Outcome{Tool: ToolDeleteItem, Text: fmt.Sprintf("deleted item %q", parsed.Identifier)}
}

// failureText renders any handler failure for the model. Recoverable taxonomy
// errors already carry a user-facing message; everything else is prefixed
// with the tool name so the model can explain what went wrong.
func failureText(tool string, err error) string {
	switch err.(type) {
	case *item.ValidationError, *item.ConflictError, *item.AmbiguousError:
		return err.Error()
	default:
		return fmt.Sprintf("%s failed: %v", tool, err)
	}
}

// itemView is the JSON projection embedded in tool result text.
type itemView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	SKU         string `json:"sku"`
}

func renderItem(it item.Item) string {
	data, err := json.Marshal(itemView{
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.String(),
		SKU:         it.SKU,
	})
	if err != nil {
		return fmt.Sprintf("%s (SKU %s)", it.Name, it.SKU)
	}
	return string(data)
}

func renderItems(items []item.Item) string {
	views := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		views = append(views, json.RawMessage(renderItem(it)))
	}
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Sprintf("%d items found", len(items))
	}
	return string(data)
}
