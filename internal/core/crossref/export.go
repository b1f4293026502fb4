// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"fmt"
	"time"

	"github.com/taibuivan/doira/pkg/slug"
)

// # Export History

// Export is one immutable snapshot in the download ledger. The XML content
// is a full copy taken at export time — it survives later regeneration of
// the issue's live document. Records are never mutated or deleted.
type Export struct {
	ID         string    `json:"id"`
	IssueID    string    `json:"issue_id"`
	XMLContent string    `json:"-"`
	Filename   string    `json:"filename"`
	ExportedAt time.Time `json:"exported_at"`

	// ExportedBy is empty when the acting account was later removed.
	ExportedBy string `json:"exported_by,omitempty"`

	// XSDValidAtExport preserves the structural validity flag as of this
	// export, nil when the document had not been validated yet.
	XSDValidAtExport *bool `json:"xsd_valid_at_export"`
}

/*
BuildFilename produces the deterministic attachment name for a download.

Description: "{publication-slug}_{volume}_{issue}_{YYYYMMDD_HHMMSS}.xml".
Empty volume or issue numbers collapse to "0" so the underscore positions
stay stable. Second-granularity timestamps keep two human-triggered exports
of the same issue from colliding.

Parameters:
  - publicationTitle: string (slugified into the name)
  - volume: string
  - issueNumber: string
  - at: time.Time (export instant)

Returns:
  - string: Attachment filename
*/
func BuildFilename(publicationTitle, volume, issueNumber string, at time.Time) string {
	if volume == "" {
		volume = "0"
	}
	if issueNumber == "" {
		issueNumber = "0"
	}
	return fmt.Sprintf("%s_%s_%s_%s.xml",
		slug.From(publicationTitle), volume, issueNumber, at.Format("20060102_150405"))
}
