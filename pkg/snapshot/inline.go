package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// nulSniffLen bounds how many leading bytes are scanned for NUL when a file
// has no known-binary extension. A binary whose first NUL sits past this
// prefix is inlined anyway; bounded sniffing is a deliberate trade against
// scanning large files end to end.
const nulSniffLen = 8192

// OutcomeKind identifies what happened to one candidate file.
type OutcomeKind int

const (
	OutcomeInlined OutcomeKind = iota
	OutcomeTooLarge
	OutcomeBinaryExtension
	OutcomeNulDetected
	OutcomeSecretPattern
	OutcomeUnlistedExtension
	OutcomeIgnoreRule
	OutcomeMissingOnDisk
	OutcomeReadError
)

// Outcome is the single recorded result for one enumerated file. Exactly one
// Outcome exists per file per run; the report renders either the inlined
// text or the one-line reason.
type Outcome struct {
	Kind OutcomeKind

	// Text is the decoded content, set only for OutcomeInlined.
	Text string

	// Detail supports the reason line: the offending extension, the size
	// versus the cap, or the read error message.
	Detail string
}

// Reason returns the bracketed marker line rendered for non-inlined files.
func (o Outcome) Reason() string {
	switch o.Kind {
	case OutcomeTooLarge:
		return fmt.Sprintf("[skipped: too large (%s)]", o.Detail)
	case OutcomeBinaryExtension:
		return fmt.Sprintf("[skipped: binary extension (%s)]", o.Detail)
	case OutcomeNulDetected:
		return "[skipped: binary content (NUL byte detected)]"
	case OutcomeSecretPattern:
		return "[skipped: secret-like path]"
	case OutcomeUnlistedExtension:
		return fmt.Sprintf("[skipped: extension not allowlisted (%s)]", o.Detail)
	case OutcomeIgnoreRule:
		return "[skipped: matched .snapshotignore]"
	case OutcomeMissingOnDisk:
		return "[missing on disk]"
	case OutcomeReadError:
		return fmt.Sprintf("[error reading: %s]", o.Detail)
	default:
		return ""
	}
}

// Inliner reads file content subject to the size and binary policy.
type Inliner struct {
	classifier *Classifier
}

// NewInliner returns an Inliner using the given classifier's extension table.
func NewInliner(classifier *Classifier) *Inliner {
	return &Inliner{classifier: classifier}
}

// Inline produces exactly one Outcome for the file at absPath. Checks run in
// order and short-circuit: size against maxBytes, known-binary extension
// (content never read), NUL sniff over the leading prefix, then UTF-8 decode
// with replacement characters for invalid sequences. Read failures become
// OutcomeReadError, never an error return.
func (in *Inliner) Inline(absPath, ext string, size, maxBytes int64) Outcome {
	if size > maxBytes {
		return Outcome{
			Kind:   OutcomeTooLarge,
			Detail: fmt.Sprintf("%d bytes > cap %d bytes", size, maxBytes),
		}
	}
	if in.classifier.IsBinaryExtension(ext) {
		return Outcome{Kind: OutcomeBinaryExtension, Detail: ext}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Outcome{Kind: OutcomeReadError, Detail: err.Error()}
	}

	sniff := data
	if len(sniff) > nulSniffLen {
		sniff = sniff[:nulSniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return Outcome{Kind: OutcomeNulDetected}
	}

	return Outcome{Kind: OutcomeInlined, Text: strings.ToValidUTF8(string(data), "�")}
}
