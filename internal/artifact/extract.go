package artifact

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/dehashscan/internal/model"
)

// Usernames returns every non-empty username in record order.
func Usernames(records []model.Record) []string {
	return nonEmpty(records, model.Record.Username)
}

// Passwords returns every non-empty plaintext password in record order.
func Passwords(records []model.Record) []string {
	return nonEmpty(records, model.Record.Password)
}

// Credentials returns "username:password" for each record that has both.
// Records missing either value are skipped.
func Credentials(records []model.Record) []string {
	out := make([]string, 0)
	for _, r := range records {
		user, pass := r.Username(), r.Password()
		if user == "" || pass == "" {
			continue
		}
		out = append(out, user+":"+pass)
	}
	return out
}

// Hashes returns every non-empty hashed password, sorted ascending.
// Duplicates are kept.
func Hashes(records []model.Record) []string {
	out := nonEmpty(records, model.Record.HashedPassword)
	slices.Sort(out)
	return out
}

// Emails returns the distinct non-empty emails, lower-cased and sorted.
func Emails(records []model.Record) []string {
	lower := cases.Lower(language.Und)
	out := make([]string, 0)
	for _, r := range records {
		if e := r.Email(); e != "" {
			out = append(out, lower.String(e))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// nonEmpty collects the non-empty results of field over records.
func nonEmpty(records []model.Record, field func(model.Record) string) []string {
	out := make([]string, 0)
	for _, r := range records {
		if v := field(r); v != "" {
			out = append(out, v)
		}
	}
	return out
}
