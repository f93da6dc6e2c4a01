/*
 * sel.go, part of zonerdf.
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

// Package sel implements a small atom selection language, compatible with
// the part of the MDAnalysis selection syntax used to define pore zones.
//
// Supported keywords:
//
//	all, none
//	name P..., resname P..., element S...   (shell patterns: * ? [..])
//	resid N..., index N...                  (numbers or ranges, 1-5 or 1:5; index is 0-based)
//	prop [abs] x|y|z OP value               (OP: < <= > >= == !=)
//	prop value OP x|y|z
//	cylayer inner outer zmax zmin SEL
//	cyzone outer zmax zmin SEL
//	not SEL, SEL and SEL, SEL or SEL, ( SEL )
//
// not binds tighter than and, which binds tighter than or. The selection
// after cylayer or cyzone extends as far to the right as possible, so it
// is usually given between parentheses.
//
// Selections involving coordinates are evaluated every time Select is called,
// so the same Selector gives different atoms for different frames.
package sel

import (
	"fmt"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

// Selector is a parsed selection.
type Selector interface {
	//Select returns the indexes, in ascending order, of the atoms of top matching
	//the selection. coords and box are only needed for dynamic selections, box can be nil
	//for non-periodic systems.
	Select(top chem.Atomer, coords *v3.Matrix, box *chem.Box) ([]int, error)
	//Dynamic returns true if the selection depends on the coordinates.
	Dynamic() bool
	String() string
}

// Parse parses a selection expression.
func Parse(expr string) (Selector, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, fmt.Errorf("selection '%s': %w", expr, err)
	}
	p := &parser{toks: toks}
	n, err := p.parseOr()
	if err == nil && !p.done() {
		err = fmt.Errorf("unexpected '%s'", p.peek())
	}
	if err != nil {
		return nil, fmt.Errorf("selection '%s': %w", expr, err)
	}
	return &selection{root: n, expr: expr}, nil
}

// selection implements Selector.
type selection struct {
	root node
	expr string
}

func (S *selection) String() string {
	return S.expr
}

func (S *selection) Dynamic() bool {
	return S.root.dynamic()
}

func (S *selection) Select(top chem.Atomer, coords *v3.Matrix, box *chem.Box) ([]int, error) {
	if top == nil {
		return nil, fmt.Errorf("selection '%s': nil topology", S.expr)
	}
	if S.root.dynamic() {
		if coords == nil {
			return nil, fmt.Errorf("selection '%s' needs coordinates", S.expr)
		}
		if coords.NVecs() < top.Len() {
			return nil, fmt.Errorf("selection '%s': %d coordinates for %d atoms", S.expr, coords.NVecs(), top.Len())
		}
	}
	c := &context{top: top, coords: coords, box: box}
	mask, err := S.root.eval(c)
	if err != nil {
		return nil, fmt.Errorf("selection '%s': %w", S.expr, err)
	}
	ret := make([]int, 0, 16)
	for i, v := range mask {
		if v {
			ret = append(ret, i)
		}
	}
	return ret, nil
}
