// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structureMessages(result StructureResult) string {
	var messages []string
	for _, finding := range result.Errors {
		messages = append(messages, finding.Message)
	}
	return strings.Join(messages, "; ")
}

func TestValidateStructureEmptyDocument(t *testing.T) {
	result := ValidateStructure("   ", time.Now())

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Line)
}

func TestValidateStructureSyntaxError(t *testing.T) {
	document := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<doi_batch>\n  <head>\n</doi_batch>"

	result := ValidateStructure(document, time.Now())

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "syntax error")
	assert.Greater(t, result.Errors[0].Line, 0)
}

func TestValidateStructureWrongNamespace(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/4.4.2">
  <head>
    <doi_batch_id>abc123_20260315120000</doi_batch_id>
    <timestamp>20260315120000</timestamp>
    <depositor>
      <depositor_name>Doira Portal</depositor_name>
      <email_address>deposits@doira.app</email_address>
    </depositor>
    <registrant>Test Publisher</registrant>
  </head>
  <body></body>
</doi_batch>`

	result := ValidateStructure(document, time.Now())

	assert.False(t, result.Valid)
	assert.Contains(t, structureMessages(result), "root namespace")
}

func TestValidateStructureMissingHeadParts(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.4.0">
  <head>
    <timestamp>not-a-timestamp</timestamp>
    <depositor>
      <depositor_name>Doira Portal</depositor_name>
    </depositor>
  </head>
  <body></body>
</doi_batch>`

	result := ValidateStructure(document, time.Now())

	messages := structureMessages(result)
	assert.Contains(t, messages, "head is missing doi_batch_id")
	assert.Contains(t, messages, "head is missing registrant")
	assert.Contains(t, messages, "timestamp must be 14 digits")
	assert.Contains(t, messages, "depositor is missing email_address")
	assert.Contains(t, messages, "no registrable works")
}

func TestValidateStructureWorkChecks(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.4.0">
  <head>
    <doi_batch_id>abc123_20260315120000</doi_batch_id>
    <timestamp>20260315120000</timestamp>
    <depositor>
      <depositor_name>Doira Portal</depositor_name>
      <email_address>deposits@doira.app</email_address>
    </depositor>
    <registrant>Test Publisher</registrant>
  </head>
  <body>
    <journal>
      <journal_article>
        <contributors>
          <person_name sequence="primary" contributor_role="author">
            <given_name>John</given_name>
          </person_name>
        </contributors>
      </journal_article>
    </journal>
  </body>
</doi_batch>`

	result := ValidateStructure(document, time.Now())

	assert.False(t, result.Valid)
	messages := structureMessages(result)
	assert.Contains(t, messages, "missing titles/title")
	assert.Contains(t, messages, "missing surname")
	assert.Contains(t, messages, `sequence must be "first" or "additional"`)
	assert.Contains(t, messages, "missing doi_data")

	// Path-located findings carry a path even without line numbers.
	for _, finding := range result.Errors {
		assert.NotEmpty(t, finding.Path)
		assert.Zero(t, finding.Line)
	}
}

func TestValidateStructureValidDocument(t *testing.T) {
	document := renderGraph(t, journalGraph())

	result := ValidateStructure(document, time.Now())

	assert.True(t, result.Valid, "unexpected findings: %s", structureMessages(result))
	assert.Empty(t, result.Errors)
	assert.False(t, result.ValidatedAt.IsZero())
}
