package plot

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/MarkCupitt/weewx/src/logger"
	"github.com/MarkCupitt/weewx/src/units"
)

// Function-mode lines synthesize their points from a small arithmetic
// expression over x (the timestamp) instead of querying an archive. The
// grammar is parsed explicitly; there is no dynamic code evaluation:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | power
//	power   = primary [ "^" unary ]          (right associative)
//	primary = number | "x" | "pi" | "e" | name "(" expr ")" | "(" expr ")"
//
// with a fixed set of math functions.

var evalFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

// Expr is a parsed function-line expression, evaluated once per x sample.
type Expr func(x float64) float64

// ParseExpr compiles an expression string. Evaluation itself cannot fail;
// domain errors surface as NaN or Inf results, which GeneratePoints treats
// as evaluation failure.
func ParseExpr(src string) (Expr, error) {
	p := &exprParser{src: src}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Newf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			l := left
			left = func(x float64) float64 { return l(x) + right(x) }
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			l := left
			left = func(x float64) float64 { return l(x) - right(x) }
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			l := left
			left = func(x float64) float64 { return l(x) * right(x) }
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			l := left
			left = func(x float64) float64 { return l(x) / right(x) }
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.peek() == '-' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return -inner(x) }, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek() == '^' {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (Expr, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, errors.Newf("missing ) at offset %d", p.pos)
		}
		p.pos++
		return inner, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		return p.parseName()
	case c == 0:
		return nil, errors.New("unexpected end of expression")
	default:
		return nil, errors.Newf("unexpected %q at offset %d", string(c), p.pos)
	}
}

func (p *exprParser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "bad number at offset %d", start)
	}
	return func(float64) float64 { return v }, nil
}

func (p *exprParser) parseName() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	name := strings.ToLower(p.src[start:p.pos])
	switch name {
	case "x":
		return func(x float64) float64 { return x }, nil
	case "pi":
		return func(float64) float64 { return math.Pi }, nil
	case "e":
		return func(float64) float64 { return math.E }, nil
	}
	fn, ok := evalFuncs[name]
	if !ok {
		return nil, errors.Newf("unknown function %q", name)
	}
	if p.peek() != '(' {
		return nil, errors.Newf("expected ( after %q", name)
	}
	p.pos++
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek() != ')' {
		return nil, errors.Newf("missing ) after %s argument", name)
	}
	p.pos++
	return func(x float64) float64 { return fn(arg(x)) }, nil
}

// GeneratePoints synthesizes the three aligned vectors for a function line:
// x from xmin (inclusive) to xmax (exclusive) stepping by xinc, y from the
// expression. Start and stop vectors both carry x, tagged as times; the data
// vector is tagged with funcType's unit group but left unitless so it passes
// through conversion unchanged.
//
// On any parse or evaluation failure the whole line degrades to a single
// zero-valued sample instead of aborting the plot. The degrade path hides
// broken expressions behind a flat-zero line; it is kept for compatibility
// with the behavior downstream consumers expect.
func GeneratePoints(funcType, funcDef string, xmin, xmax, xinc int64) (startVec, stopVec, dataVec units.Vector) {
	if xinc < 1 {
		xinc = 1
	}
	xs := []float64{}
	ys := []float64{}
	fn, err := ParseExpr(funcDef)
	if err == nil {
		for x := xmin; x < xmax; x += xinc {
			y := fn(float64(x))
			if math.IsNaN(y) || math.IsInf(y, 0) {
				err = errors.Newf("expression undefined at x=%d", x)
				break
			}
			xs = append(xs, float64(x))
			ys = append(ys, y)
		}
	}
	if err != nil {
		logger.L().Errorw("point generation failed for function line",
			"function", funcDef, "error", err)
		xs = []float64{0}
		ys = []float64{0}
	}
	_, timeGroup := units.StandardUnitType("", "dateTime", "")
	_, dataGroup := units.StandardUnitType("", funcType, "")
	startVec = units.NewVector(xs, "", timeGroup)
	stopVec = units.NewVector(xs, "", timeGroup)
	dataVec = units.NewVector(ys, "", dataGroup)
	return startVec, stopVec, dataVec
}
