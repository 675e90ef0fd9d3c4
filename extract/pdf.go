// CLAUDE:SUMMARY PDF extractor — pdfcpu text layer, largest-candidate total detection, regulatory term scan.
package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/moncel/intake/classify"
	"github.com/moncel/intake/internal/pdftext"
)

// pdfExtractor pulls the text layer out of PDF bytes and evaluates
// invoice-style risk signals over it.
type pdfExtractor struct {
	cfg Config
}

func newPDFExtractor(cfg Config) *pdfExtractor {
	return &pdfExtractor{cfg: cfg}
}

// Extract reads the PDF text layer and scans it for a monetary total,
// line items, and regulatory terms. Unreadable PDFs degrade to an
// anomaly, never an error.
func (e *pdfExtractor) Extract(_ context.Context, input classify.RawInput, _ classify.Classification) *Result {
	res := newResult()

	text, pages, err := pdftext.Extract(input.Content)
	if err != nil {
		res.addAnomaly("unreadable pdf: " + err.Error())
		res.Fields["text_extracted"] = false
		return res
	}
	res.Fields["text_extracted"] = true
	res.Fields["page_count"] = pages

	e.scanInvoiceText(text, res)
	return res
}

// currencyRe matches a number following a currency symbol: $12,500.00
var currencyRe = regexp.MustCompile(`[$€£]\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// totalRe matches labelled totals without a currency symbol: "Total: 12500"
var totalRe = regexp.MustCompile(`(?i)total(?:\s+amount)?\s*[:\s]\s*\$?([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// lineItemRe matches "description  qty  price" rows flattened into text.
var lineItemRe = regexp.MustCompile(`(?m)^(.{3,60}?)\s{2,}(\d{1,4})\s{2,}\$?([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*$`)

// scanInvoiceText evaluates monetary and regulatory risk over extracted
// text.
//
// When several total candidates appear (multiple currency amounts,
// labelled totals, a line-item sum), the largest value wins. Taking the
// largest rather than the first or last avoids under-flagging an invoice
// whose biggest amount is buried mid-document.
func (e *pdfExtractor) scanInvoiceText(text string, res *Result) {
	var candidates []float64

	for _, m := range currencyRe.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok {
			candidates = append(candidates, v)
		}
	}
	for _, m := range totalRe.FindAllStringSubmatch(text, -1) {
		if v, ok := parseAmount(m[1]); ok {
			candidates = append(candidates, v)
		}
	}

	items, itemSum := parseLineItems(text)
	if len(items) > 0 {
		res.Fields["line_items"] = items
		candidates = append(candidates, itemSum)
	}

	var total float64
	for _, v := range candidates {
		if v > total {
			total = v
		}
	}
	if len(candidates) > 0 {
		res.Fields["invoice_total"] = total
		// Strictly greater than the threshold: a total exactly at the
		// bound does not flag.
		if total > e.cfg.HighValueThreshold {
			res.addFlag(FlagHighValue)
		}
	} else {
		res.addAnomaly("no monetary value found")
	}

	lower := strings.ToLower(text)
	var matched []string
	for _, term := range e.cfg.RegulatoryTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			matched = append(matched, term)
		}
	}
	if len(matched) > 0 {
		res.Fields["flagged_terms"] = matched
		res.addFlag(FlagRegulatoryTerm)
	}
}

// lineItem is one parsed "description qty price" row.
type lineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// parseLineItems recovers tabular invoice rows from flattened text and
// returns them with their qty*price sum.
func parseLineItems(text string) ([]lineItem, float64) {
	var items []lineItem
	var sum float64
	for _, m := range lineItemRe.FindAllStringSubmatch(text, -1) {
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty == 0 {
			continue
		}
		price, ok := parseAmount(m[3])
		if !ok {
			continue
		}
		items = append(items, lineItem{
			Description: strings.TrimSpace(m[1]),
			Quantity:    qty,
			Price:       price,
		})
		sum += float64(qty) * price
	}
	return items, sum
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
