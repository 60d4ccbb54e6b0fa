package dialog

import (
	"strings"

	"github.com/m3rciful/cityexplorer/explorer/category"
)

// ActionKind is the closed set of menu actions a button can carry.
type ActionKind uint8

const (
	ActionUnknown ActionKind = iota
	ActionMainMenu
	ActionCategory
	ActionUtilities
	ActionHelp
	ActionUtility
	ActionSettings
	// ActionNoop is "noop" data from cosmetic buttons; clicks are only acknowledged.
	ActionNoop
)

// Utility is one entry of the utilities menu.
type Utility uint8

const (
	UtilityNone Utility = iota
	UtilityWeather
	UtilityCurrency
	UtilityTranslate
	UtilityEmergency
	UtilityLocation
)

var utilitySlugs = [...]string{
	UtilityWeather:   "weather",
	UtilityCurrency:  "currency",
	UtilityTranslate: "translate",
	UtilityEmergency: "emergency",
	UtilityLocation:  "location",
}

// String returns the slug used in callback data.
func (u Utility) String() string {
	if u == UtilityNone || int(u) >= len(utilitySlugs) {
		return "none"
	}
	return utilitySlugs[u]
}

// Category returns the pseudo-category a utility switches the session to.
func (u Utility) Category() (category.ID, bool) {
	switch u {
	case UtilityWeather:
		return category.Weather, true
	case UtilityCurrency:
		return category.Currency, true
	case UtilityTranslate:
		return category.Translate, true
	}
	return category.None, false
}

func parseUtility(slug string) Utility {
	for u, s := range utilitySlugs {
		if s != "" && s == slug {
			return Utility(u)
		}
	}
	return UtilityNone
}

const (
	dataMainMenu  = "main_menu"
	dataUtilities = "utilities"
	dataHelp      = "help"
	dataSettings  = "settings"
	dataNoop      = "noop"

	prefixCategory = "cat_"
	prefixUtility  = "util_"
)

// Action is a parsed menu action. Category is set for ActionCategory and
// Utility for ActionUtility. Raw keeps the data it was parsed from.
type Action struct {
	Kind     ActionKind
	Category category.ID
	Utility  Utility
	Raw      string
}

// Convenience constructors for keyboards.
var (
	MainMenuAction  = Action{Kind: ActionMainMenu}
	UtilitiesAction = Action{Kind: ActionUtilities}
	HelpAction      = Action{Kind: ActionHelp}
	SettingsAction  = Action{Kind: ActionSettings}
)

// CategoryAction opens category id.
func CategoryAction(id category.ID) Action {
	return Action{Kind: ActionCategory, Category: id}
}

// UtilityAction opens utility u.
func UtilityAction(u Utility) Action {
	return Action{Kind: ActionUtility, Utility: u}
}

// ParseAction decodes callback data. Anything unrecognized, including a
// cat_ or util_ prefix with an unknown slug, yields ActionUnknown.
func ParseAction(data string) Action {
	raw := data
	data = strings.TrimSpace(data)
	a := Action{Raw: raw}
	switch data {
	case dataMainMenu:
		a.Kind = ActionMainMenu
	case dataUtilities:
		a.Kind = ActionUtilities
	case dataHelp:
		a.Kind = ActionHelp
	case dataSettings:
		a.Kind = ActionSettings
	case dataNoop:
		a.Kind = ActionNoop
	default:
		if slug, ok := strings.CutPrefix(data, prefixCategory); ok {
			if id, ok := category.Parse(slug); ok {
				a.Kind, a.Category = ActionCategory, id
			}
		} else if slug, ok := strings.CutPrefix(data, prefixUtility); ok {
			if u := parseUtility(slug); u != UtilityNone {
				a.Kind, a.Utility = ActionUtility, u
			}
		}
	}
	return a
}

// Data encodes a as callback data. Unknown actions encode as noop.
func (a Action) Data() string {
	switch a.Kind {
	case ActionMainMenu:
		return dataMainMenu
	case ActionCategory:
		return prefixCategory + a.Category.String()
	case ActionUtilities:
		return dataUtilities
	case ActionHelp:
		return dataHelp
	case ActionUtility:
		return prefixUtility + a.Utility.String()
	case ActionSettings:
		return dataSettings
	}
	return dataNoop
}

// Name is a short label for logs.
func (a Action) Name() string {
	if a.Kind == ActionUnknown {
		return "unknown"
	}
	return a.Data()
}

// KnownActions lists the callback data of every action the machine handles.
func KnownActions() []string {
	out := []string{dataMainMenu, dataUtilities, dataHelp, dataSettings, dataNoop}
	for _, id := range category.All() {
		out = append(out, CategoryAction(id).Data())
	}
	for u := UtilityWeather; u <= UtilityLocation; u++ {
		out = append(out, UtilityAction(u).Data())
	}
	return out
}
