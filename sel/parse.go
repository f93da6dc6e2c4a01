/*
 * parse.go, part of zonerdf.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package sel

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
)

var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "all": true, "none": true,
	"name": true, "resname": true, "resid": true, "index": true, "element": true,
	"prop": true, "cylayer": true, "cyzone": true, "(": true, ")": true,
}

// tokenize splits the expression in words, parentheses and comparison operators.
func tokenize(expr string) ([]string, error) {
	var toks []string
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	rs := []rune(expr)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case strings.ContainsRune("<>=!", r):
			flush()
			op := string(r)
			if i+1 < len(rs) && rs[i+1] == '=' {
				op += "="
				i++
			}
			if op == "=" || op == "!" {
				return nil, fmt.Errorf("invalid operator '%s'", op)
			}
			toks = append(toks, op)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty selection")
	}
	return toks, nil
}

func isOp(s string) bool {
	switch s {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}

// opposite gives the operator to use when the operands are swapped.
var opposite = map[string]string{"<": ">", "<=": ">=", ">": "<", ">=": "<=", "==": "==", "!=": "!="}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() (string, error) {
	if p.done() {
		return "", fmt.Errorf("unexpected end of selection")
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orNode{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" {
		p.pos++
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andNode{left, right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.peek() == "not" {
		p.pos++
		n, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{n}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch t {
	case "(":
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t, _ := p.next(); t != ")" {
			return nil, fmt.Errorf("missing ')'")
		}
		return n, nil
	case "all":
		return allNode(true), nil
	case "none":
		return allNode(false), nil
	case "name", "resname", "element":
		words, err := p.words(t)
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			if _, err := path.Match(w, ""); err != nil {
				return nil, fmt.Errorf("bad pattern '%s'", w)
			}
		}
		return &fieldNode{field: t, patterns: words}, nil
	case "resid", "index":
		words, err := p.words(t)
		if err != nil {
			return nil, err
		}
		n := &numNode{field: t}
		for _, w := range words {
			r, err := parseRange(w)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t, err)
			}
			n.ranges = append(n.ranges, r)
		}
		return n, nil
	case "prop":
		return p.parseProp()
	case "cylayer", "cyzone":
		return p.parseCyl(t == "cyzone")
	}
	return nil, fmt.Errorf("unexpected '%s'", t)
}

// words consumes the arguments of a keyword, up to the next keyword or operator.
func (p *parser) words(kw string) ([]string, error) {
	var ret []string
	for !p.done() && !keywords[p.peek()] && !isOp(p.peek()) {
		ret = append(ret, p.toks[p.pos])
		p.pos++
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("'%s' needs at least one value", kw)
	}
	return ret, nil
}

// parseRange reads N, N-M or N:M.
func parseRange(w string) ([2]int, error) {
	sep := strings.IndexAny(w[1:], "-:") //the first character could be a minus sign
	if sep < 0 {
		n, err := strconv.Atoi(w)
		if err != nil {
			return [2]int{}, fmt.Errorf("invalid number '%s'", w)
		}
		return [2]int{n, n}, nil
	}
	sep++
	lo, err1 := strconv.Atoi(w[:sep])
	hi, err2 := strconv.Atoi(w[sep+1:])
	if err1 != nil || err2 != nil || hi < lo {
		return [2]int{}, fmt.Errorf("invalid range '%s'", w)
	}
	return [2]int{lo, hi}, nil
}

func (p *parser) number() (float64, error) {
	t, err := p.next()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got '%s'", t)
	}
	return f, nil
}

func axis(s string) int {
	switch s {
	case "x":
		return 0
	case "y":
		return 1
	case "z":
		return 2
	}
	return -1
}

func (p *parser) parseProp() (node, error) {
	n := &propNode{}
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t == "abs" {
		n.abs = true
		if t, err = p.next(); err != nil {
			return nil, err
		}
	}
	op, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isOp(op) {
		return nil, fmt.Errorf("prop: expected an operator, got '%s'", op)
	}
	v, err := p.next()
	if err != nil {
		return nil, err
	}
	//either "prop x < 3" or "prop 3 > x"
	if n.axis = axis(t); n.axis >= 0 {
		n.op = op
		n.value, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("prop: invalid value '%s'", v)
		}
		return n, nil
	}
	if n.axis = axis(v); n.axis < 0 {
		return nil, fmt.Errorf("prop: unknown property in '%s %s %s'", t, op, v)
	}
	n.op = opposite[op]
	n.value, err = strconv.ParseFloat(t, 64)
	if err != nil {
		return nil, fmt.Errorf("prop: invalid value '%s'", t)
	}
	return n, nil
}

func (p *parser) parseCyl(zone bool) (node, error) {
	n := &cylNode{}
	var err error
	if !zone {
		if n.inner, err = p.number(); err != nil {
			return nil, fmt.Errorf("cylayer: %w", err)
		}
	}
	for _, f := range []*float64{&n.outer, &n.zmax, &n.zmin} {
		if *f, err = p.number(); err != nil {
			return nil, fmt.Errorf("cylinder: %w", err)
		}
	}
	if n.inner < 0 || n.outer <= n.inner {
		return nil, fmt.Errorf("cylinder: invalid radii %g %g", n.inner, n.outer)
	}
	if n.zmax <= n.zmin {
		return nil, fmt.Errorf("cylinder: zmax (%g) must be larger than zmin (%g)", n.zmax, n.zmin)
	}
	if n.ref, err = p.parseOr(); err != nil {
		return nil, err
	}
	return n, nil
}
