package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Turkish number and operator words, translated token by token before the
// expression is evaluated.
var numberWords = map[string]string{
	"sıfır": "0", "bir": "1", "iki": "2", "üç": "3", "dört": "4",
	"beş": "5", "altı": "6", "yedi": "7", "sekiz": "8", "dokuz": "9",
	"on": "10", "yüz": "100", "bin": "1000",
}

var operatorWords = map[string]string{
	"artı": "+", "ekle": "+", "topla": "+",
	"eksi": "-", "çıkar": "-", "çıkart": "-",
	"çarpı": "*", "çarp": "*", "kere": "*",
	"bölü": "/", "böl": "/",
}

var bareNumberRe = regexp.MustCompile(`\d+\.?\d*`)

func (d *Dispatcher) handleCalculator(text string) string {
	lowered := cases.Lower(language.Turkish).String(text)

	expr := translateExpression(lowered)
	if result, err := evalExpression(expr); err == nil {
		return fmt.Sprintf("Sonuç: %s", formatNumber(result))
	}

	// Expression extraction failed; fall back to bare numbers plus an
	// operator keyword.
	matches := bareNumberRe.FindAllString(text, -1)
	if len(matches) >= 2 {
		nums := make([]float64, 0, len(matches))
		for _, m := range matches {
			n, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			nums = append(nums, n)
		}
		if len(nums) >= 2 {
			switch {
			case strings.Contains(lowered, "artı") || strings.Contains(lowered, "topla"):
				sum := 0.0
				for _, n := range nums {
					sum += n
				}
				return fmt.Sprintf("Sonuç: %s", formatNumber(sum))
			case strings.Contains(lowered, "çarp"):
				product := nums[0]
				for _, n := range nums[1:] {
					product *= n
				}
				return fmt.Sprintf("Sonuç: %s", formatNumber(product))
			}
		}
	}

	return respCalcHelp
}

// translateExpression maps number and operator words to symbols, then strips
// everything outside the arithmetic charset.
func translateExpression(lowered string) string {
	tokens := strings.Fields(lowered)
	for i, tok := range tokens {
		if digit, ok := numberWords[tok]; ok {
			tokens[i] = digit
		} else if op, ok := operatorWords[tok]; ok {
			tokens[i] = op
		}
	}

	var sb strings.Builder
	for _, r := range strings.Join(tokens, " ") {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == '*', r == '/', r == '.':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// evalExpression evaluates a left-to-right arithmetic expression with the
// usual * and / precedence. Only digits, the dot and the four operators are
// accepted; anything else never reaches this point.
func evalExpression(expr string) (float64, error) {
	p := &exprParser{input: expr}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at %d", p.pos)
	}
	return result, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.input) {
		op := p.input[p.pos]
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseNumber()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.input) {
		op := p.input[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		right, err := p.parseNumber()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
	return left, nil
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	digits := 0
	dots := 0
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			digits++
			p.pos++
			continue
		}
		if c == '.' {
			dots++
			p.pos++
			continue
		}
		break
	}
	if digits == 0 || dots > 1 {
		return 0, fmt.Errorf("invalid number at %d", start)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}

// formatNumber renders results without trailing zeros: 8 not 8.000000.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
