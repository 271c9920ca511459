package handler

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// The evaluator accepts pure arithmetic only. A blocklist catches hostile
// text outright; the character allow-list and the fixed identifier table
// reject everything else before govaluate ever parses it.
var (
	errCalcBlocked    = errors.New("expression contains a blocked term")
	errCalcCharset    = errors.New("expression contains unsupported characters")
	errCalcIdentifier = errors.New("expression uses an unknown name")
	errCalcNotFinite  = errors.New("result is not a finite number")

	calcBlockedTerms = []string{
		"process", "require", "import", "eval", "exec",
		"function", "while", "constructor", "=>", ";", "`",
	}
	calcAllowedChars = regexp.MustCompile(`^[0-9a-z+\-*/%().,\s]*$`)
	calcIdentifiers  = regexp.MustCompile(`[a-z]+`)

	calcAllowedNames = map[string]bool{
		"sqrt": true, "abs": true, "floor": true, "ceil": true,
		"round": true, "min": true, "max": true, "log": true,
		"sin": true, "cos": true, "tan": true,
		"pi": true, "e": true,
	}

	calcFunctions = map[string]govaluate.ExpressionFunction{
		"sqrt":  calcUnary(math.Sqrt),
		"abs":   calcUnary(math.Abs),
		"floor": calcUnary(math.Floor),
		"ceil":  calcUnary(math.Ceil),
		"round": calcUnary(math.Round),
		"log":   calcUnary(math.Log),
		"sin":   calcUnary(math.Sin),
		"cos":   calcUnary(math.Cos),
		"tan":   calcUnary(math.Tan),
		"min":   calcFold(math.Min),
		"max":   calcFold(math.Max),
	}

	calcConstants = map[string]interface{}{
		"pi": math.Pi,
		"e":  math.E,
	}
)

func calcUnary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected one argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("argument is not a number")
		}
		return fn(x), nil
	}
}

func calcFold(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("expected at least two arguments, got %d", len(args))
		}
		acc, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("argument is not a number")
		}
		for _, arg := range args[1:] {
			x, ok := arg.(float64)
			if !ok {
				return nil, fmt.Errorf("argument is not a number")
			}
			acc = fn(acc, x)
		}
		return acc, nil
	}
}

// normalizeExpression lowers the input and rewrites the human math symbols
// into evaluator syntax.
func normalizeExpression(input string) string {
	expr := strings.ToLower(strings.TrimSpace(input))
	replacer := strings.NewReplacer(
		"²", "^2",
		"³", "^3",
		"√", "sqrt",
		"π", "pi",
		"÷", "/",
		"×", "*",
	)
	expr = replacer.Replace(expr)
	// govaluate spells exponentiation **.
	return strings.ReplaceAll(expr, "^", "**")
}

// checkExpression vets a normalized expression against the blocklist, the
// character allow-list and the identifier table, in that order.
func checkExpression(expr string) error {
	for _, term := range calcBlockedTerms {
		if strings.Contains(expr, term) {
			return errCalcBlocked
		}
	}
	if !calcAllowedChars.MatchString(expr) {
		return errCalcCharset
	}
	for _, name := range calcIdentifiers.FindAllString(expr, -1) {
		if !calcAllowedNames[name] {
			return errCalcIdentifier
		}
	}
	return nil
}

// evaluateExpression runs the full normalize/vet/evaluate pipeline.
func evaluateExpression(input string) (float64, error) {
	expr := normalizeExpression(input)
	if err := checkExpression(expr); err != nil {
		return 0, err
	}

	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(expr, calcFunctions)
	if err != nil {
		return 0, fmt.Errorf("could not parse the expression")
	}
	result, err := compiled.Evaluate(calcConstants)
	if err != nil {
		return 0, fmt.Errorf("could not evaluate the expression")
	}
	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("the expression is not numeric")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errCalcNotFinite
	}
	return value, nil
}

// formatCalcResult renders integers plainly, very large or very small values
// in exponent form, everything else with up to six fractional digits.
func formatCalcResult(x float64) string {
	abs := math.Abs(x)
	if x == math.Trunc(x) && abs < 1e15 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	if abs >= 1e15 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(x, 'e', 6, 64)
	}
	s := strconv.FormatFloat(x, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func (h *Handler) cmdCalc(ctx *cmdContext) {
	if len(ctx.args) < 1 {
		ctx.replyEphemeral("Usage: calc <expression>")
		return
	}

	input := strings.Join(ctx.args, " ")
	value, err := evaluateExpression(input)
	if err != nil {
		reason := "Could not evaluate that expression."
		switch {
		case errors.Is(err, errCalcBlocked), errors.Is(err, errCalcCharset), errors.Is(err, errCalcIdentifier):
			reason = "That expression isn't allowed; only plain arithmetic is."
		case errors.Is(err, errCalcNotFinite):
			reason = "That expression has no finite result."
		}
		ctx.replyEphemeral(reason)
		return
	}

	embed := actionEmbed("Calculator", fmt.Sprintf("```\n%s = %s\n```", input, formatCalcResult(value)), colorInfo)
	ctx.replyEmbed(embed)
}
