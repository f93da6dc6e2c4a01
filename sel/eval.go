/*
 * eval.go, part of zonerdf.
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
	"math"

	chem "github.com/rmera/zonerdf"
	v3 "github.com/rmera/zonerdf/v3"
)

// context is what a node needs to be evaluated.
type context struct {
	top    chem.Atomer
	coords *v3.Matrix
	box    *chem.Box
}

// node is an element of the selection syntax tree. eval returns
// a slice with one element per atom, true for the selected ones.
type node interface {
	eval(c *context) ([]bool, error)
	dynamic() bool
}

type allNode bool

func (a allNode) eval(c *context) ([]bool, error) {
	ret := make([]bool, c.top.Len())
	if a {
		for i := range ret {
			ret[i] = true
		}
	}
	return ret, nil
}

func (a allNode) dynamic() bool { return false }

// fieldNode matches a string field of the atoms against shell patterns.
type fieldNode struct {
	field    string
	patterns []string
}

func (f *fieldNode) eval(c *context) ([]bool, error) {
	var idx []int
	switch f.field {
	case "name":
		idx = chem.ByName(c.top, f.patterns...)
	case "resname":
		idx = chem.ByMolName(c.top, f.patterns...)
	case "element":
		idx = chem.Match(c.top, func(at *chem.Atom) bool { return chem.GlobAny(f.patterns, at.Symbol) })
	}
	ret := make([]bool, c.top.Len())
	for _, i := range idx {
		ret[i] = true
	}
	return ret, nil
}

func (f *fieldNode) dynamic() bool { return false }

// numNode matches residue IDs or atom indexes against inclusive ranges.
type numNode struct {
	field  string
	ranges [][2]int
}

func (n *numNode) eval(c *context) ([]bool, error) {
	ret := make([]bool, c.top.Len())
	for i := range ret {
		v := i
		if n.field == "resid" {
			v = c.top.Atom(i).MolID
		}
		for _, r := range n.ranges {
			if v >= r[0] && v <= r[1] {
				ret[i] = true
				break
			}
		}
	}
	return ret, nil
}

func (n *numNode) dynamic() bool { return false }

// propNode compares a cartesian coordinate with a value.
type propNode struct {
	abs   bool
	axis  int
	op    string
	value float64
}

func (p *propNode) eval(c *context) ([]bool, error) {
	ret := make([]bool, c.top.Len())
	for i := range ret {
		v := c.coords.At(i, p.axis)
		if p.abs {
			v = math.Abs(v)
		}
		switch p.op {
		case "<":
			ret[i] = v < p.value
		case "<=":
			ret[i] = v <= p.value
		case ">":
			ret[i] = v > p.value
		case ">=":
			ret[i] = v >= p.value
		case "==":
			ret[i] = v == p.value
		case "!=":
			ret[i] = v != p.value
		}
	}
	return ret, nil
}

func (p *propNode) dynamic() bool { return true }

// cylNode selects the atoms inside a cylindrical layer (or a full cylinder, if inner is 0)
// with its axis along z, going through the center of geometry of the atoms selected by ref.
type cylNode struct {
	inner, outer float64
	zmax, zmin   float64
	ref          node
}

func (y *cylNode) eval(c *context) ([]bool, error) {
	refmask, err := y.ref.eval(c)
	if err != nil {
		return nil, err
	}
	var ref []int
	for i, v := range refmask {
		if v {
			ref = append(ref, i)
		}
	}
	ret := make([]bool, c.top.Len())
	if len(ref) == 0 {
		return ret, nil
	}
	center := v3.Centroid(c.coords, ref)
	periodic := c.box.Valid()
	hheight := (y.zmax - y.zmin) / 2
	if periodic {
		l := c.box.Lengths()
		if 2*y.outer > l[0] || 2*y.outer > l[1] {
			return nil, fmt.Errorf("the diameter of the cylinder (%.3f) is larger than the box (%.3f x %.3f)", 2*y.outer, l[0], l[1])
		}
		if 2*hheight > l[2] {
			return nil, fmt.Errorf("the height of the cylinder (%.3f) is larger than the box z length (%.3f)", 2*hheight, l[2])
		}
		//With periodic boundaries, the vectors are taken from the middle of the cylinder.
		center[2] += y.zmax - hheight
	}
	in2, out2 := y.inner*y.inner, y.outer*y.outer
	for i := range ret {
		p := c.coords.Vec(i)
		d := [3]float64{p[0] - center[0], p[1] - center[1], p[2] - center[2]}
		if periodic {
			d = c.box.MinImage(d)
			if math.Abs(d[2]) >= hheight {
				continue
			}
		} else if d[2] <= y.zmin || d[2] >= y.zmax {
			continue
		}
		r2 := d[0]*d[0] + d[1]*d[1]
		if r2 >= out2 {
			continue
		}
		if y.inner > 0 && r2 <= in2 {
			continue
		}
		ret[i] = true
	}
	return ret, nil
}

func (y *cylNode) dynamic() bool { return true }

type notNode struct {
	n node
}

func (n *notNode) eval(c *context) ([]bool, error) {
	m, err := n.n.eval(c)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i] = !m[i]
	}
	return m, nil
}

func (n *notNode) dynamic() bool { return n.n.dynamic() }

type andNode struct {
	l, r node
}

func (a *andNode) eval(c *context) ([]bool, error) {
	l, err := a.l.eval(c)
	if err != nil {
		return nil, err
	}
	r, err := a.r.eval(c)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] && r[i]
	}
	return l, nil
}

func (a *andNode) dynamic() bool { return a.l.dynamic() || a.r.dynamic() }

type orNode struct {
	l, r node
}

func (o *orNode) eval(c *context) ([]bool, error) {
	l, err := o.l.eval(c)
	if err != nil {
		return nil, err
	}
	r, err := o.r.eval(c)
	if err != nil {
		return nil, err
	}
	for i := range l {
		l[i] = l[i] || r[i]
	}
	return l, nil
}

func (o *orNode) dynamic() bool { return o.l.dynamic() || o.r.dynamic() }
