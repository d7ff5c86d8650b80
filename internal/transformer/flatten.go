package transformer

// Flatten normalizes an Exp tree: + and - chains collapse into a single
// n-ary Add, constants fold together, and 0+x=x / 1*x=x / 0*x=0 identities
// apply. No distributivity is attempted — x*(y+z) is left as a Mul node,
// which is exactly the shape the linearizer's "one operand must be
// constant" rule is built to reject or accept.
func Flatten(e Exp) Exp {
	switch e.Kind {
	case ExpNumber, ExpVariable:
		return e

	case ExpAdd:
		var terms []Exp
		var constant float64
		var sawConstant bool
		var collect func(Exp)
		collect = func(t Exp) {
			t = Flatten(t)
			if t.Kind == ExpAdd {
				for _, sub := range t.Terms {
					collect(sub)
				}
				return
			}
			if t.Kind == ExpNumber {
				constant += t.Number
				sawConstant = true
				return
			}
			terms = append(terms, t)
		}
		for _, t := range e.Terms {
			collect(t)
		}
		if len(terms) == 0 {
			return NumberExp(constant)
		}
		if sawConstant && constant != 0 {
			terms = append([]Exp{NumberExp(constant)}, terms...)
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return AddExp(terms...)

	case ExpNeg:
		inner := Flatten(*e.Operand)
		switch inner.Kind {
		case ExpNumber:
			return NumberExp(-inner.Number)
		case ExpNeg:
			return *inner.Operand
		default:
			return NegExp(inner)
		}

	case ExpMul:
		l := Flatten(*e.Left)
		r := Flatten(*e.Right)
		if l.Kind == ExpNumber && l.Number == 0 {
			return NumberExp(0)
		}
		if r.Kind == ExpNumber && r.Number == 0 {
			return NumberExp(0)
		}
		if l.Kind == ExpNumber && l.Number == 1 {
			return r
		}
		if r.Kind == ExpNumber && r.Number == 1 {
			return l
		}
		if l.Kind == ExpNumber && r.Kind == ExpNumber {
			return NumberExp(l.Number * r.Number)
		}
		return MulExp(l, r)

	case ExpDiv:
		l := Flatten(*e.Left)
		r := Flatten(*e.Right)
		if l.Kind == ExpNumber && l.Number == 0 {
			return NumberExp(0)
		}
		if r.Kind == ExpNumber && r.Number == 1 {
			return l
		}
		if l.Kind == ExpNumber && r.Kind == ExpNumber && r.Number != 0 {
			return NumberExp(l.Number / r.Number)
		}
		return DivExp(l, r)

	case ExpMod:
		inner := Flatten(*e.Operand)
		if inner.Kind == ExpNumber {
			n := inner.Number
			if n < 0 {
				n = -n
			}
			return NumberExp(n)
		}
		return ModExp(inner)

	case ExpMin:
		terms := make([]Exp, len(e.Operands))
		allConstant := true
		for i, t := range e.Operands {
			terms[i] = Flatten(t)
			if terms[i].Kind != ExpNumber {
				allConstant = false
			}
		}
		if allConstant && len(terms) > 0 {
			min := terms[0].Number
			for _, t := range terms[1:] {
				if t.Number < min {
					min = t.Number
				}
			}
			return NumberExp(min)
		}
		return MinExp(terms...)

	case ExpMax:
		terms := make([]Exp, len(e.Operands))
		allConstant := true
		for i, t := range e.Operands {
			terms[i] = Flatten(t)
			if terms[i].Kind != ExpNumber {
				allConstant = false
			}
		}
		if allConstant && len(terms) > 0 {
			max := terms[0].Number
			for _, t := range terms[1:] {
				if t.Number > max {
					max = t.Number
				}
			}
			return NumberExp(max)
		}
		return MaxExp(terms...)

	default:
		return e
	}
}
