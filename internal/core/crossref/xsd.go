// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Structural validation of rendered deposit documents.
//
// Two passes: well-formedness through encoding/xml (line/column-located
// findings) and an element-model walk through etree against the Crossref
// 5.4.0 deposit shape (path-located findings, possibly without line info).
// This check is orthogonal to business-rule pre-validation — a deposit can
// be business-valid yet structurally invalid and vice versa.
package crossref

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// # Findings

// StructureError is a single structural finding. Line and Column are zero
// when the fault is located only by path; Path is empty for document-level
// faults such as a syntax error.
type StructureError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Path    string `json:"path,omitempty"`
}

// StructureResult is the outcome of one structural validation run.
type StructureResult struct {
	Valid       bool             `json:"is_valid"`
	Errors      []StructureError `json:"errors"`
	ValidatedAt time.Time        `json:"validated_at"`
}

func (r *StructureResult) addError(err StructureError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// # Validation

var timestampPattern = regexp.MustCompile(`^\d{14}$`)

/*
ValidateStructure checks a rendered document against the Crossref deposit
element model.

Description: First verifies XML well-formedness, reporting the syntax error
with its line and column. A well-formed document is then walked against the
required deposit shape: root namespace, complete head block, a non-empty
body, and per-work mandatory children (titles, contributors, doi_data).

Parameters:
  - document: string (rendered XML)
  - now: time.Time (stamped into the result)

Returns:
  - StructureResult: Validity flag plus located findings
*/
func ValidateStructure(document string, now time.Time) StructureResult {
	result := StructureResult{Valid: true, ValidatedAt: now}

	if strings.TrimSpace(document) == "" {
		result.addError(StructureError{Message: "empty document", Line: 1})
		return result
	}

	if err := checkWellFormed(document, &result); err != nil {
		// Not parseable; the element-model walk would be meaningless.
		return result
	}

	tree := etree.NewDocument()
	if err := tree.ReadFromString(document); err != nil {
		result.addError(StructureError{Message: fmt.Sprintf("parse failed: %v", err)})
		return result
	}

	checkDepositShape(tree, &result)
	return result
}

// checkWellFormed streams the document through encoding/xml and converts
// the first syntax fault into a line-located finding.
func checkWellFormed(document string, result *StructureResult) error {
	decoder := xml.NewDecoder(strings.NewReader(document))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			finding := StructureError{Message: fmt.Sprintf("syntax error: %v", err)}
			var syntaxError *xml.SyntaxError
			if errors.As(err, &syntaxError) {
				finding.Line = syntaxError.Line
			}
			result.addError(finding)
			return err
		}
	}
}

// checkDepositShape walks the element tree against the mandatory Crossref
// deposit structure.
func checkDepositShape(tree *etree.Document, result *StructureResult) {
	root := tree.Root()
	if root == nil {
		result.addError(StructureError{Message: "missing root element"})
		return
	}

	if root.Tag != "doi_batch" {
		result.addError(StructureError{
			Message: fmt.Sprintf("root element must be doi_batch, found %s", root.Tag),
			Path:    root.GetPath(),
		})
	}
	if namespace := root.SelectAttrValue("xmlns", ""); namespace != CrossrefNamespace {
		result.addError(StructureError{
			Message: fmt.Sprintf("root namespace must be %s", CrossrefNamespace),
			Path:    root.GetPath(),
		})
	}

	checkHead(root, result)

	body := root.SelectElement("body")
	if body == nil {
		result.addError(StructureError{Message: "missing body element", Path: root.GetPath()})
		return
	}

	works := 0
	for _, journal := range body.SelectElements("journal") {
		works += checkWorks(journal, "journal_article", result)
	}
	for _, conference := range body.SelectElements("conference") {
		works += checkWorks(conference, "conference_paper", result)
	}
	for _, book := range body.SelectElements("book") {
		works += checkWorks(book, "content_item", result)
	}

	if works == 0 {
		result.addError(StructureError{Message: "body contains no registrable works", Path: body.GetPath()})
	}
}

func checkHead(root *etree.Element, result *StructureResult) {
	head := root.SelectElement("head")
	if head == nil {
		result.addError(StructureError{Message: "missing head element", Path: root.GetPath()})
		return
	}

	for _, required := range []string{"doi_batch_id", "timestamp", "registrant"} {
		element := head.SelectElement(required)
		if element == nil || strings.TrimSpace(element.Text()) == "" {
			result.addError(StructureError{
				Message: fmt.Sprintf("head is missing %s", required),
				Path:    head.GetPath(),
			})
		}
	}

	if timestamp := head.SelectElement("timestamp"); timestamp != nil {
		if !timestampPattern.MatchString(strings.TrimSpace(timestamp.Text())) {
			result.addError(StructureError{
				Message: "timestamp must be 14 digits (YYYYMMDDHHMMSS)",
				Path:    timestamp.GetPath(),
			})
		}
	}

	depositor := head.SelectElement("depositor")
	if depositor == nil {
		result.addError(StructureError{Message: "head is missing depositor", Path: head.GetPath()})
		return
	}
	for _, required := range []string{"depositor_name", "email_address"} {
		element := depositor.SelectElement(required)
		if element == nil || strings.TrimSpace(element.Text()) == "" {
			result.addError(StructureError{
				Message: fmt.Sprintf("depositor is missing %s", required),
				Path:    depositor.GetPath(),
			})
		}
	}
}

// checkWorks validates every registrable work under a container element and
// returns how many were seen.
func checkWorks(container *etree.Element, workTag string, result *StructureResult) int {
	works := container.SelectElements(workTag)
	for _, work := range works {
		titles := work.SelectElement("titles")
		if titles == nil || titles.SelectElement("title") == nil {
			result.addError(StructureError{
				Message: fmt.Sprintf("%s is missing titles/title", workTag),
				Path:    work.GetPath(),
			})
		}

		checkContributors(work, result)
		checkDOIData(work, result)
	}
	return len(works)
}

func checkContributors(work *etree.Element, result *StructureResult) {
	contributors := work.SelectElement("contributors")
	if contributors == nil {
		return
	}

	for _, person := range contributors.SelectElements("person_name") {
		if surname := person.SelectElement("surname"); surname == nil || strings.TrimSpace(surname.Text()) == "" {
			result.addError(StructureError{
				Message: "person_name is missing surname",
				Path:    person.GetPath(),
			})
		}

		switch person.SelectAttrValue("sequence", "") {
		case "first", "additional":
		default:
			result.addError(StructureError{
				Message: `person_name sequence must be "first" or "additional"`,
				Path:    person.GetPath(),
			})
		}

		if person.SelectAttrValue("contributor_role", "") == "" {
			result.addError(StructureError{
				Message: "person_name is missing contributor_role",
				Path:    person.GetPath(),
			})
		}
	}
}

func checkDOIData(work *etree.Element, result *StructureResult) {
	doiData := work.SelectElement("doi_data")
	if doiData == nil {
		result.addError(StructureError{
			Message: "work is missing doi_data",
			Path:    work.GetPath(),
		})
		return
	}

	for _, required := range []string{"doi", "resource"} {
		element := doiData.SelectElement(required)
		if element == nil || strings.TrimSpace(element.Text()) == "" {
			result.addError(StructureError{
				Message: fmt.Sprintf("doi_data is missing %s", required),
				Path:    doiData.GetPath(),
			})
		}
	}
}
