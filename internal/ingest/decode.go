package ingest

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/nao1215/sonarstash/internal/model"
	"gopkg.in/yaml.v3"
)

// issueKeyNamespace seeds the keys generated for issues that come without one.
var issueKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nao1215/sonarstash/issue"))

// nativeDocument is the native issue file layout.
type nativeDocument struct {
	Issues []nativeIssue `yaml:"issues"`
}

// nativeIssue mirrors model.Issue with a nullable severity, so that a
// missing severity is not mistaken for the zero value BLOCKER.
type nativeIssue struct {
	Key      string        `yaml:"key"`
	Severity *string       `yaml:"severity"`
	Message  string        `yaml:"message"`
	Rule     model.RuleKey `yaml:"rule"`
	FilePath string        `yaml:"file"`
	Line     *int          `yaml:"line"`
}

// genericDocument is the SonarQube generic external issue report.
type genericDocument struct {
	Issues []genericIssue `yaml:"issues"`
}

type genericIssue struct {
	EngineID        string          `yaml:"engineId"`
	RuleID          string          `yaml:"ruleId"`
	Severity        string          `yaml:"severity"`
	Type            string          `yaml:"type"`
	PrimaryLocation genericLocation `yaml:"primaryLocation"`
}

type genericLocation struct {
	Message   string            `yaml:"message"`
	FilePath  string            `yaml:"filePath"`
	TextRange *genericTextRange `yaml:"textRange"`
}

type genericTextRange struct {
	StartLine int `yaml:"startLine"`
	EndLine   int `yaml:"endLine"`
}

// probeDocument is used to tell the two layouts apart.
type probeDocument struct {
	Issues *[]map[string]yaml.Node `yaml:"issues"`
}

// Decode reads an issue document from r. name is only used in errors.
// YAML is a superset of JSON, so both encodings are accepted.
func Decode(r io.Reader, name string) ([]model.Issue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var probe probeDocument
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if probe.Issues == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoIssuesKey)
	}
	if isGeneric(*probe.Issues) {
		return decodeGeneric(data, name)
	}
	return decodeNative(data, name)
}

// isGeneric reports whether the issues look like a generic external report.
func isGeneric(issues []map[string]yaml.Node) bool {
	if len(issues) == 0 {
		return false
	}
	_, hasEngine := issues[0]["engineId"]
	_, hasLocation := issues[0]["primaryLocation"]
	return hasEngine || hasLocation
}

func decodeNative(data []byte, name string) ([]model.Issue, error) {
	var doc nativeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	issues := make([]model.Issue, 0, len(doc.Issues))
	for i, ni := range doc.Issues {
		issue, err := ni.toIssue()
		if err != nil {
			return nil, fmt.Errorf("%s: issue %d: %w", name, i, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// toIssue converts a native issue. Severity and both parts of the rule
// key are required.
func (ni nativeIssue) toIssue() (model.Issue, error) {
	if ni.Severity == nil {
		return model.Issue{}, fmt.Errorf("%w: severity is required", ErrInvalidIssue)
	}
	if ni.Rule.Repository == "" || ni.Rule.Rule == "" {
		return model.Issue{}, fmt.Errorf("%w: rule.repository and rule.rule are required", ErrInvalidIssue)
	}
	sev, err := model.ParseSeverity(*ni.Severity)
	if err != nil {
		return model.Issue{}, fmt.Errorf("%w: %w", ErrInvalidIssue, err)
	}

	issue := model.Issue{
		Key:      ni.Key,
		Severity: sev,
		Message:  ni.Message,
		Rule:     ni.Rule,
		FilePath: ni.FilePath,
		Line:     ni.Line,
	}
	if issue.Key == "" {
		issue.Key = generateKey(issue)
	}
	return issue, nil
}

func decodeGeneric(data []byte, name string) ([]model.Issue, error) {
	var doc genericDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	issues := make([]model.Issue, 0, len(doc.Issues))
	for i, gi := range doc.Issues {
		issue, err := gi.toIssue()
		if err != nil {
			return nil, fmt.Errorf("%s: issue %d: %w", name, i, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// toIssue converts a generic external issue. The engine id becomes the
// rule repository, as SonarQube does when importing such reports.
func (gi genericIssue) toIssue() (model.Issue, error) {
	if gi.EngineID == "" || gi.RuleID == "" {
		return model.Issue{}, fmt.Errorf("%w: engineId and ruleId are required", ErrInvalidIssue)
	}
	sev, err := model.ParseSeverity(gi.Severity)
	if err != nil {
		return model.Issue{}, fmt.Errorf("%w: %w", ErrInvalidIssue, err)
	}

	issue := model.Issue{
		Severity: sev,
		Message:  gi.PrimaryLocation.Message,
		Rule:     model.RuleKey{Repository: gi.EngineID, Rule: gi.RuleID},
		FilePath: gi.PrimaryLocation.FilePath,
	}
	if tr := gi.PrimaryLocation.TextRange; tr != nil && tr.StartLine > 0 {
		issue.Line = model.LineOf(tr.StartLine)
	}
	issue.Key = generateKey(issue)
	return issue, nil
}

// generateKey derives a stable key from the identity of an issue, so the
// same input always yields the same keys.
func generateKey(issue model.Issue) string {
	return uuid.NewSHA1(issueKeyNamespace, []byte(issue.Fingerprint())).String()
}
