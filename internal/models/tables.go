package models

import "fmt"

// Logical tables every namespace is provisioned with. Callers must use one
// of these identifiers; anything else is a programming error.
const (
	TableAccounts        = "accounts"
	TableLinks           = "links"
	TableIdeas           = "ideas"
	TableCategories      = "categories"
	TableReminders       = "reminders"
	TableNotes           = "notes"
	TableSurveys         = "surveys"
	TableSurveyQuestions = "survey_questions"
	TableSurveyResponses = "survey_responses"
	TableProfiles        = "profiles"
)

// Tables lists every logical table in a stable order (used by the file
// mirror to iterate full snapshots).
var Tables = []string{
	TableAccounts,
	TableLinks,
	TableIdeas,
	TableCategories,
	TableReminders,
	TableNotes,
	TableSurveys,
	TableSurveyQuestions,
	TableSurveyResponses,
	TableProfiles,
}

var tableSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Tables))
	for _, t := range Tables {
		m[t] = struct{}{}
	}
	return m
}()

// ValidTable reports whether name is one of the fixed logical tables.
func ValidTable(name string) bool {
	_, ok := tableSet[name]
	return ok
}

// MustTable panics when name is not a known logical table. Misuse is a bug
// in the caller, not a runtime condition to recover from.
func MustTable(name string) {
	if !ValidTable(name) {
		panic(fmt.Sprintf("models: unknown table %q", name))
	}
}
