// Package columns resolves semantic fields from spreadsheet rows whose
// headers vary between Hebrew and English exports.
package columns

// Header aliases, in lookup order.
var (
	WorkCenterAliases = []string{"מרכז עבודה", "Station Name", "תחנה", "תחנת עבודה", "station"}

	TeamAliases = []string{"צוות"}

	ExpectedDateAliases = []string{"מועד סיום צפוי", "Expected Completion Date"}

	PriorityNoteAliases = []string{"הערות מנהל פרויקט", "Internal Priority"}

	RemainingAliases = []string{"יתרה לביצוע", "יתרה לבצוע", "Remaining to Execute", "Balance"}
)

// Substring patterns for columns whose exact names drift between exports.
var (
	// QuantityTerm must appear in a quantity column name together with one
	// of QuantityQualifiers (work-order quantity: "כמות פק\"ע").
	QuantityTerm       = "כמות"
	QuantityQualifiers = []string{"פק", "פקיע", "הפקיע"}

	// RemainingTerms must all appear in a remaining-to-execute column name.
	RemainingTerms = []string{"יתרה", "ביצוע"}

	// StandardTimeTerm marks standard-time columns (rendered as H:MM).
	StandardTimeTerm = "זמן תקן"
)
