package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/mempack/encoding"
	"github.com/arloliu/mempack/errs"
	"github.com/arloliu/mempack/format"
)

// parseArgs converts command-line words into the values fmtStr consumes,
// using the kind of each directive to pick the conversion.
func parseArgs(ctx format.Context, fmtStr string, words []string) ([]encoding.Value, error) {
	p := format.NewParser(fmtStr, ctx)
	total := 0
	vals := make([]encoding.Value, 0, len(words))
	for p.More() {
		d, err := p.Next(total)
		if err != nil {
			return nil, err
		}
		total += d.Padding + d.Size
		if !d.Kind.ConsumesValue() {
			continue
		}

		idx := len(vals)
		if idx >= len(words) {
			return nil, fmt.Errorf("%w: args[%d] for option '%c'", errs.ErrMissingArgument, idx, d.Option)
		}
		v, err := parseWord(d.Kind, words[idx])
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", idx, err)
		}
		vals = append(vals, v)
	}
	if len(vals) < len(words) {
		return nil, fmt.Errorf("%d unused arguments starting at %q", len(words)-len(vals), words[len(vals)])
	}

	return vals, nil
}

func parseWord(kind format.Kind, word string) (encoding.Value, error) {
	num := strings.ReplaceAll(word, "_", "")
	switch kind {
	case format.KindInt:
		n, err := strconv.ParseInt(num, 0, 64)
		if err != nil {
			return encoding.Value{}, fmt.Errorf("%w: %q is not an integer", errs.ErrArgumentType, word)
		}

		return encoding.Int(n), nil
	case format.KindUint:
		n, err := strconv.ParseUint(num, 0, 64)
		if err != nil {
			// negative input reaches the packer, which reports the overflow
			if i, ierr := strconv.ParseInt(num, 0, 64); ierr == nil {
				return encoding.Int(i), nil
			}

			return encoding.Value{}, fmt.Errorf("%w: %q is not an unsigned integer", errs.ErrArgumentType, word)
		}

		return encoding.Uint(n), nil
	case format.KindFloat:
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return encoding.Value{}, fmt.Errorf("%w: %q is not a number", errs.ErrArgumentType, word)
		}

		return encoding.Float(f), nil
	default:
		return encoding.String(word), nil
	}
}

// parsePadByte accepts a number in [0, 255] or a single character.
func parsePadByte(s string) (byte, error) {
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		return byte(n), nil
	}
	if len(s) == 1 {
		return s[0], nil
	}

	return 0, fmt.Errorf("parse pad byte: %q is neither a byte value nor a single character", s)
}
