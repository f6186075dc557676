// builtin_array.go: array operations
//
// Arrays are shared references, so the mutating operations (PUSH, SET,
// SORT, REVERSE, SHUFFLE, SWAP, CLEAR) are visible through every name
// bound to the same array. The transforming operations (MAP, FILTER,
// TAKE, ...) always build a fresh array and leave the source alone.
//
// The predicate/transform operations evaluate their expression once
// per element with the implicit variables `item` and `index` bound in
// the current scope; FOLD uses `acc` and `item`. Previous bindings of
// those names are saved and restored around the loop.
package anubhav

import (
	"math"
	"sort"
)

func registerArrayOps(t OpTable) {
	t.add("ARRAY", opArrayNew, aOut("name"))
	t.add("PUSH", opPush, aIdent("array"), aExpr("value"))
	t.add("POP", opPop, aIdent("array"), aOut("result"))
	t.add("GET", opGet, aIdent("array"), aExpr("index"), aOut("result"))
	t.add("SET", opSet, aIdent("array"), aExpr("index"), aExpr("value"))
	t.add("SIZE", opSize, aIdent("value"), aOut("result"))
	t.add("SORT", opSort, aIdent("array"),
		ArgSpec{Kind: argMode, Name: "order", Optional: true, Modes: []TokenType{ASC, DESC}})
	t.add("REVERSE", opReverse, aIdent("array"))
	t.add("MAP", opMap, aIdent("array"), aExpr("transform"), aOut("result"))
	t.add("FILTER", opFilter, aIdent("array"), aExpr("predicate"), aOut("result"))
	t.add("FIND", opFind, aIdent("array"), aExpr("predicate"), aOut("result"))
	t.add("COUNT", opCount, aIdent("array"), aExpr("predicate"), aOut("result"))
	t.add("ALL", opAll, aIdent("array"), aExpr("predicate"), aOut("result"))
	t.add("ANY", opAny, aIdent("array"), aExpr("predicate"), aOut("result"))
	t.add("FOLD", opFold, aIdent("array"), aExpr("initial"), aExpr("combine"), aOut("result"))
	t.add("SUM", opSum, aIdent("array"), aOut("result"))
	t.add("AVERAGE", opAverage, aIdent("array"), aOut("result"))
	t.add("MEDIAN", opMedian, aIdent("array"), aOut("result"))
	t.add("MODE", opMode, aIdent("array"), aOut("result"))
	t.add("VARIANCE", opVariance, aIdent("array"), aOut("result"))
	t.add("STDDEV", opStddev, aIdent("array"), aOut("result"))
	t.add("MIN_OF", opMinOf, aIdent("array"), aOut("result"))
	t.add("MAX_OF", opMaxOf, aIdent("array"), aOut("result"))
	t.add("JOIN", opJoinArr, aIdent("array"), aStr("separator"), aOut("result"))
	t.add("RANGE", opRange, aExpr("start"), aExpr("end"),
		ArgSpec{Kind: argExpr, Name: "step", Optional: true, Prefix: STEP}, aOut("result"))
	t.add("UNIQUE", opUnique, aIdent("array"), aOut("result"))
	t.add("CONCAT", opConcat, aIdent("left"), aIdent("right"), aOut("result"))
	t.add("TAKE", opTake, aIdent("array"), aExpr("count"), aOut("result"))
	t.add("DROP", opDrop, aIdent("array"), aExpr("count"), aOut("result"))
	t.add("SLICE", opSlice, aIdent("array"), aExpr("start"), aExpr("end"), aOut("result"))
	t.add("ZIP", opZip, aIdent("left"), aIdent("right"), aOut("result"))
	t.add("FLATTEN", opFlatten, aIdent("array"), aOut("result"))
	t.add("DIFF", opDiff, aIdent("left"), aIdent("right"), aOut("result"))
	t.add("INTERSECTION", opIntersection, aIdent("left"), aIdent("right"), aOut("result"))
	t.add("UNION", opUnion, aIdent("left"), aIdent("right"), aOut("result"))
	t.add("CLEAR", opClear, aIdent("container"))
	t.add("SWAP", opSwap, aIdent("array"), aExpr("first"), aExpr("second"))
	t.add("SHUFFLE", opShuffle, aIdent("array"))
	t.add("SAMPLE", opSample, aIdent("array"), aExpr("count"), aOut("result"))
	t.add("CLONE", opClone, aIdent("source"), aOut("result"))
}

/* ===========================
   implicit loop variables
   =========================== */

// saveVars snapshots the given names in the current scope and returns
// a restore function. Names that were unbound are deleted again.
func (in *Interp) saveVars(names ...string) func() {
	scope := in.currentScope()
	saved := make(map[string]Value, len(names))
	present := make(map[string]bool, len(names))
	for _, n := range names {
		if v, ok := scope.Get(n); ok {
			saved[n] = v
			present[n] = true
		}
	}
	return func() {
		for _, n := range names {
			if present[n] {
				scope.Define(n, saved[n])
			} else {
				scope.Delete(n)
			}
		}
	}
}

// evalPerItem evaluates expr once per element with item/index bound.
func (c *opCtx) evalPerItem(arr *ArrayObject, exprIdx int, visit func(i int, v Value) (stop bool, err error)) error {
	restore := c.in.saveVars("item", "index")
	defer restore()
	elems := arr.Elems
	for i, e := range elems {
		c.in.setVar("item", e)
		c.in.setVar("index", Num(float64(i)))
		v, err := c.eval(exprIdx)
		if err != nil {
			return err
		}
		stop, err := visit(i, v)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// evalPredicate is evalPerItem with a truthiness check.
func (c *opCtx) evalPredicate(arr *ArrayObject, exprIdx int, visit func(i int, keep bool) bool) error {
	return c.evalPerItem(arr, exprIdx, func(i int, v Value) (bool, error) {
		keep, err := c.in.truthy(v, c.st.Args[exprIdx].Pos)
		if err != nil {
			return true, err
		}
		return visit(i, keep), nil
	})
}

/* ===========================
   basics
   =========================== */

func opArrayNew(c *opCtx) error {
	c.bindOut(0, NewArr())
	return nil
}

func opPush(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	v, err := c.eval(1)
	if err != nil {
		return err
	}
	arr.Elems = append(arr.Elems, v)
	return nil
}

func opPop(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	n := len(arr.Elems)
	if n == 0 {
		return c.errf(ErrIndexOutOfRange, "cannot POP from an empty array")
	}
	v := arr.Elems[n-1]
	arr.Elems = arr.Elems[:n-1]
	c.bindOut(1, v)
	return nil
}

// arrayIndex evaluates an index argument and bounds-checks it.
func (c *opCtx) arrayIndex(arr *ArrayObject, i int) (int, error) {
	f, err := c.num(i)
	if err != nil {
		return 0, err
	}
	idx := int(f)
	if idx < 0 || idx >= len(arr.Elems) {
		return 0, c.errf(ErrIndexOutOfRange, "index %d out of range for array of size %d", idx, len(arr.Elems))
	}
	return idx, nil
}

func opGet(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	idx, err := c.arrayIndex(arr, 1)
	if err != nil {
		return err
	}
	c.bindOut(2, arr.Elems[idx])
	return nil
}

func opSet(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	idx, err := c.arrayIndex(arr, 1)
	if err != nil {
		return err
	}
	v, err := c.eval(2)
	if err != nil {
		return err
	}
	arr.Elems[idx] = v
	return nil
}

func opSize(c *opCtx) error {
	v, err := c.lookup(0)
	if err != nil {
		return err
	}
	n, err := valueLength(v, c.st.Args[0].Pos, "SIZE")
	if err != nil {
		return err
	}
	c.bindOut(1, n)
	return nil
}

func opSort(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	desc := c.mode(1) == "DESC"
	var sortErr error
	sort.SliceStable(arr.Elems, func(i, j int) bool {
		cmp, ok := compareValues(arr.Elems[i], arr.Elems[j])
		if !ok && sortErr == nil {
			sortErr = c.errf(ErrTypeMismatch, "cannot SORT mixed %s and %s elements",
				arr.Elems[i].Tag, arr.Elems[j].Tag)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return sortErr
}

func opReverse(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	for i, j := 0, len(arr.Elems)-1; i < j; i, j = i+1, j-1 {
		arr.Elems[i], arr.Elems[j] = arr.Elems[j], arr.Elems[i]
	}
	return nil
}

/* ===========================
   transforms and predicates
   =========================== */

func opMap(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	out := make([]Value, 0, len(arr.Elems))
	err = c.evalPerItem(arr, 1, func(_ int, v Value) (bool, error) {
		out = append(out, v)
		return false, nil
	})
	if err != nil {
		return err
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opFilter(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	var out []Value
	err = c.evalPredicate(arr, 1, func(i int, keep bool) bool {
		if keep {
			out = append(out, arr.Elems[i])
		}
		return false
	})
	if err != nil {
		return err
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

// FIND binds the index of the first matching element, -1 when none
// matches.
func opFind(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	found := -1
	err = c.evalPredicate(arr, 1, func(i int, keep bool) bool {
		if keep {
			found = i
		}
		return keep
	})
	if err != nil {
		return err
	}
	c.bindOut(2, Num(float64(found)))
	return nil
}

func opCount(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	n := 0
	err = c.evalPredicate(arr, 1, func(_ int, keep bool) bool {
		if keep {
			n++
		}
		return false
	})
	if err != nil {
		return err
	}
	c.bindOut(2, Num(float64(n)))
	return nil
}

func opAll(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	all := true
	err = c.evalPredicate(arr, 1, func(_ int, keep bool) bool {
		if !keep {
			all = false
		}
		return !keep
	})
	if err != nil {
		return err
	}
	c.bindOut(2, boolNum(all))
	return nil
}

func opAny(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	any := false
	err = c.evalPredicate(arr, 1, func(_ int, keep bool) bool {
		if keep {
			any = true
		}
		return keep
	})
	if err != nil {
		return err
	}
	c.bindOut(2, boolNum(any))
	return nil
}

func opFold(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	acc, err := c.eval(1)
	if err != nil {
		return err
	}
	restore := c.in.saveVars("acc", "item", "index")
	defer restore()
	for i, e := range arr.Elems {
		c.in.setVar("acc", acc)
		c.in.setVar("item", e)
		c.in.setVar("index", Num(float64(i)))
		acc, err = c.eval(2)
		if err != nil {
			return err
		}
	}
	c.bindOut(3, acc)
	return nil
}

/* ===========================
   numeric aggregates
   =========================== */

// numericElems requires every element to be a number.
func (c *opCtx) numericElems(i int) ([]float64, error) {
	arr, err := c.array(i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(arr.Elems))
	for j, e := range arr.Elems {
		if e.Tag != TagNumber {
			return nil, c.errf(ErrTypeMismatch, "element %d is a %s, expected number", j, e.Tag)
		}
		out[j] = e.AsNum()
	}
	return out, nil
}

func (c *opCtx) nonEmptyNums(i int, op string) ([]float64, error) {
	nums, err := c.numericElems(i)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, c.errf(ErrIndexOutOfRange, "%s of an empty array", op)
	}
	return nums, nil
}

func sumOf(nums []float64) float64 {
	total := 0.0
	for _, f := range nums {
		total += f
	}
	return total
}

func opSum(c *opCtx) error {
	nums, err := c.numericElems(0)
	if err != nil {
		return err
	}
	c.bindOut(1, Num(sumOf(nums)))
	return nil
}

func opAverage(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "AVERAGE")
	if err != nil {
		return err
	}
	c.bindOut(1, Num(sumOf(nums)/float64(len(nums))))
	return nil
}

func opMedian(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "MEDIAN")
	if err != nil {
		return err
	}
	sorted := append([]float64{}, nums...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		c.bindOut(1, Num(sorted[n/2]))
	} else {
		c.bindOut(1, Num((sorted[n/2-1]+sorted[n/2])/2))
	}
	return nil
}

// MODE picks the most frequent value; ties go to the smallest so the
// result is deterministic.
func opMode(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "MODE")
	if err != nil {
		return err
	}
	counts := map[float64]int{}
	for _, f := range nums {
		counts[f]++
	}
	best, bestN := 0.0, -1
	for f, n := range counts {
		if n > bestN || (n == bestN && f < best) {
			best, bestN = f, n
		}
	}
	c.bindOut(1, Num(best))
	return nil
}

func variance(nums []float64) float64 {
	mean := sumOf(nums) / float64(len(nums))
	total := 0.0
	for _, f := range nums {
		d := f - mean
		total += d * d
	}
	return total / float64(len(nums))
}

func opVariance(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "VARIANCE")
	if err != nil {
		return err
	}
	c.bindOut(1, Num(variance(nums)))
	return nil
}

func opStddev(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "STDDEV")
	if err != nil {
		return err
	}
	c.bindOut(1, Num(math.Sqrt(variance(nums))))
	return nil
}

func opMinOf(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "MIN_OF")
	if err != nil {
		return err
	}
	best := nums[0]
	for _, f := range nums[1:] {
		if f < best {
			best = f
		}
	}
	c.bindOut(1, Num(best))
	return nil
}

func opMaxOf(c *opCtx) error {
	nums, err := c.nonEmptyNums(0, "MAX_OF")
	if err != nil {
		return err
	}
	best := nums[0]
	for _, f := range nums[1:] {
		if f > best {
			best = f
		}
	}
	c.bindOut(1, Num(best))
	return nil
}

/* ===========================
   builders
   =========================== */

func opJoinArr(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	sep, err := c.str(1)
	if err != nil {
		return err
	}
	out := ""
	for i, e := range arr.Elems {
		if i > 0 {
			out += sep
		}
		out += e.Stringify()
	}
	c.bindOut(2, Str(out))
	return nil
}

// RANGE builds [start..end] inclusive, like FOR; step 0 yields an
// empty array.
func opRange(c *opCtx) error {
	start, err := c.num(0)
	if err != nil {
		return err
	}
	end, err := c.num(1)
	if err != nil {
		return err
	}
	step := 1.0
	if c.has(2) {
		step, err = c.num(2)
		if err != nil {
			return err
		}
	}
	var out []Value
	if step != 0 {
		for i := start; (step > 0 && i <= end) || (step < 0 && i >= end); i += step {
			out = append(out, Num(i))
		}
	}
	c.bindOut(3, Arr(&ArrayObject{Elems: out}))
	return nil
}

func containsValue(elems []Value, v Value) bool {
	for _, e := range elems {
		if valueEqual(e, v) {
			return true
		}
	}
	return false
}

func opUnique(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	var out []Value
	for _, e := range arr.Elems {
		if !containsValue(out, e) {
			out = append(out, e)
		}
	}
	c.bindOut(1, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opConcat(c *opCtx) error {
	left, err := c.array(0)
	if err != nil {
		return err
	}
	right, err := c.array(1)
	if err != nil {
		return err
	}
	out := make([]Value, 0, len(left.Elems)+len(right.Elems))
	out = append(out, left.Elems...)
	out = append(out, right.Elems...)
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

// clampCount turns a float count into [0, len].
func clampCount(f float64, n int) int {
	k := int(f)
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	return k
}

func opTake(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	f, err := c.num(1)
	if err != nil {
		return err
	}
	k := clampCount(f, len(arr.Elems))
	c.bindOut(2, Arr(&ArrayObject{Elems: append([]Value{}, arr.Elems[:k]...)}))
	return nil
}

func opDrop(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	f, err := c.num(1)
	if err != nil {
		return err
	}
	k := clampCount(f, len(arr.Elems))
	c.bindOut(2, Arr(&ArrayObject{Elems: append([]Value{}, arr.Elems[k:]...)}))
	return nil
}

// SLICE is half-open [start, end), both bounds clamped.
func opSlice(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	sf, err := c.num(1)
	if err != nil {
		return err
	}
	ef, err := c.num(2)
	if err != nil {
		return err
	}
	n := len(arr.Elems)
	start := clampCount(sf, n)
	end := clampCount(ef, n)
	if end < start {
		end = start
	}
	c.bindOut(3, Arr(&ArrayObject{Elems: append([]Value{}, arr.Elems[start:end]...)}))
	return nil
}

func opZip(c *opCtx) error {
	left, err := c.array(0)
	if err != nil {
		return err
	}
	right, err := c.array(1)
	if err != nil {
		return err
	}
	n := len(left.Elems)
	if len(right.Elems) < n {
		n = len(right.Elems)
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[i] = NewArr(left.Elems[i], right.Elems[i])
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

// FLATTEN expands array elements one level; non-array elements pass
// through.
func opFlatten(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	var out []Value
	for _, e := range arr.Elems {
		if e.Tag == TagArray {
			out = append(out, e.AsArr().Elems...)
		} else {
			out = append(out, e)
		}
	}
	c.bindOut(1, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opDiff(c *opCtx) error {
	left, err := c.array(0)
	if err != nil {
		return err
	}
	right, err := c.array(1)
	if err != nil {
		return err
	}
	var out []Value
	for _, e := range left.Elems {
		if !containsValue(right.Elems, e) {
			out = append(out, e)
		}
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opIntersection(c *opCtx) error {
	left, err := c.array(0)
	if err != nil {
		return err
	}
	right, err := c.array(1)
	if err != nil {
		return err
	}
	var out []Value
	for _, e := range left.Elems {
		if containsValue(right.Elems, e) && !containsValue(out, e) {
			out = append(out, e)
		}
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opUnion(c *opCtx) error {
	left, err := c.array(0)
	if err != nil {
		return err
	}
	right, err := c.array(1)
	if err != nil {
		return err
	}
	var out []Value
	for _, e := range left.Elems {
		if !containsValue(out, e) {
			out = append(out, e)
		}
	}
	for _, e := range right.Elems {
		if !containsValue(out, e) {
			out = append(out, e)
		}
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opClear(c *opCtx) error {
	v, err := c.lookup(0)
	if err != nil {
		return err
	}
	switch v.Tag {
	case TagArray:
		v.AsArr().Elems = nil
	case TagDict:
		d := v.AsDict()
		for k := range d.Entries {
			delete(d.Entries, k)
		}
	default:
		return c.errf(ErrTypeMismatch, "cannot CLEAR a %s", v.Tag)
	}
	return nil
}

func opSwap(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	i, err := c.arrayIndex(arr, 1)
	if err != nil {
		return err
	}
	j, err := c.arrayIndex(arr, 2)
	if err != nil {
		return err
	}
	arr.Elems[i], arr.Elems[j] = arr.Elems[j], arr.Elems[i]
	return nil
}

func opShuffle(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	c.in.rng.Shuffle(len(arr.Elems), func(i, j int) {
		arr.Elems[i], arr.Elems[j] = arr.Elems[j], arr.Elems[i]
	})
	return nil
}

// SAMPLE draws count elements without replacement, clamped to the
// array size.
func opSample(c *opCtx) error {
	arr, err := c.array(0)
	if err != nil {
		return err
	}
	f, err := c.num(1)
	if err != nil {
		return err
	}
	k := clampCount(f, len(arr.Elems))
	perm := c.in.rng.Perm(len(arr.Elems))
	out := make([]Value, k)
	for i := 0; i < k; i++ {
		out[i] = arr.Elems[perm[i]]
	}
	c.bindOut(2, Arr(&ArrayObject{Elems: out}))
	return nil
}

func opClone(c *opCtx) error {
	v, err := c.lookup(0)
	if err != nil {
		return err
	}
	c.bindOut(1, v.Clone())
	return nil
}
