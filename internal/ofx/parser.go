// Package ofx converts OFX/QFX statement files into validations the
// advisor can use for context.
package ofx

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/cardwiz/cardwiz/internal/classify"
	"github.com/cardwiz/cardwiz/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns spend validations. Credits
// (payments, refunds, interest) are skipped; the advisor only reasons
// about spending.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Validation, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var validations []model.Validation
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			accountID := string(stmt.BankAcctFrom.AcctID)
			currency := normalizeCurrency(stmt.CurDef.String())
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				if v, ok := p.convertTransaction(ofxTx, accountID, currency); ok {
					validations = append(validations, v)
				}
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			accountID := string(stmt.CCAcctFrom.AcctID)
			currency := normalizeCurrency(stmt.CurDef.String())
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				if v, ok := p.convertTransaction(ofxTx, accountID, currency); ok {
					validations = append(validations, v)
				}
			}
		}
	}

	slog.Info("Parsed OFX file",
		"validations", len(validations),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return validations, nil
}

// convertTransaction maps one OFX transaction to a validation. Returns
// false for credits.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, currency string) (model.Validation, bool) {
	// OFX uses negative amounts for debits
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount >= 0 {
		return model.Validation{}, false
	}

	merchant := p.extractMerchantName(ofxTx)

	return model.Validation{
		ID:       transactionID(accountID, string(ofxTx.FiTID)),
		Merchant: merchant,
		Category: string(classify.InferCategory(merchant)),
		Currency: currency,
		Amount:   -amount,
		Date:     ofxTx.DtPosted.Time,
	}, true
}

// transactionID derives a stable cache ID from the account and the bank's
// transaction ID, so re-importing the same file upserts instead of
// duplicating.
func transactionID(accountID, fiTID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(accountID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(fiTID))
	// Keep the ID positive for SQLite's INTEGER PRIMARY KEY.
	return int64(h.Sum64() &^ (1 << 63))
}

// normalizeCurrency maps the statement's currency to a supported code.
func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if model.IsSupportedCurrency(code) {
		return code
	}
	return model.DefaultCurrency
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"UPI-",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
