package actions

import "strings"

// SolanaLogoURL is the icon shown for every action.
const SolanaLogoURL = "https://solana.com/src/img/branding/solanaLogoMark.svg"

// API paths of the actions served by this service.
const (
	TipPath      = "/api/actions/tip"
	CheckoutPath = "/api/actions/checkout"
)

// ActionsJSON is the discovery document served at /actions.json.
type ActionsJSON struct {
	Rules []ActionRule `json:"rules"`
}

// ActionRule maps website paths to an action API path.
type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

// Discovery returns the static discovery document.
func Discovery() ActionsJSON {
	return ActionsJSON{
		Rules: []ActionRule{
			{PathPattern: "/shop/*", APIPath: CheckoutPath},
			{PathPattern: "/*", APIPath: TipPath},
		},
	}
}

// ActionGetResponse is the metadata a client renders before posting.
type ActionGetResponse struct {
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Label       string       `json:"label"`
	Links       *ActionLinks `json:"links,omitempty"`
}

// ActionLinks groups the parameterized actions of a metadata document.
type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

// LinkedAction is a templated href plus the parameters that fill it.
type LinkedAction struct {
	Href       string            `json:"href"`
	Label      string            `json:"label"`
	Parameters []ActionParameter `json:"parameters,omitempty"`
}

// ActionParameterType is the input type a client should render.
type ActionParameterType string

const (
	ParameterText   ActionParameterType = "text"
	ParameterNumber ActionParameterType = "number"
)

// ActionParameter describes one user-supplied field.
type ActionParameter struct {
	Name     string              `json:"name"`
	Label    string              `json:"label"`
	Required bool                `json:"required"`
	Type     ActionParameterType `json:"type,omitempty"`
	Min      *float64            `json:"min,omitempty"`
}

// TextParameter builds a text field.
func TextParameter(name, label string, required bool) ActionParameter {
	return ActionParameter{Name: name, Label: label, Required: required, Type: ParameterText}
}

// NumberParameter builds a numeric field with a lower bound.
func NumberParameter(name, label string, required bool, min float64) ActionParameter {
	return ActionParameter{Name: name, Label: label, Required: required, Type: ParameterNumber, Min: &min}
}

// ActionPostRequest is the body of a POST to an action.
type ActionPostRequest struct {
	Account string `json:"account"`
}

// ActionPostResponse carries the unsigned transaction back to the client.
type ActionPostResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

// TipMetadata describes the tip action.
func TipMetadata() ActionGetResponse {
	return ActionGetResponse{
		Icon:        SolanaLogoURL,
		Title:       "Buy Me a Coffee (Blink MVP)",
		Description: "Send a small SOL tip to demo a Solana Blink action.",
		Label:       "Tip",
		Links: &ActionLinks{Actions: []LinkedAction{{
			Href:  TipPath + "?to={to}&amount={amount}",
			Label: "Send Tip",
			Parameters: []ActionParameter{
				TextParameter("to", "Recipient pubkey", true),
				NumberParameter("amount", "Amount (SOL)", true, MinTipSOL),
			},
		}}},
	}
}

// CheckoutMetadata describes the checkout action.
func CheckoutMetadata() ActionGetResponse {
	return ActionGetResponse{
		Icon:        SolanaLogoURL,
		Title:       "Blink Shop Checkout",
		Description: "Pick an item and quantity to generate a checkout transaction.",
		Label:       "Checkout",
		Links: &ActionLinks{Actions: []LinkedAction{{
			Href:  CheckoutPath + "?sku={sku}&qty={qty}",
			Label: "Pay Shop",
			Parameters: []ActionParameter{
				TextParameter("sku", "Item sku ("+strings.Join(SKUs(), ", ")+")", true),
				NumberParameter("qty", "Quantity", true, MinQuantity),
			},
		}}},
	}
}
