// builtin_dict.go: dictionary operations
//
// Dictionaries map string keys to values and are shared references
// like arrays. Key arguments accept a string literal or a bare word,
// which is taken literally. KEYS and VALUES emit in sorted key order
// so programs behave the same across runs.
package anubhav

import "sort"

func registerDictOps(t OpTable) {
	t.add("DICT", opDictNew, aOut("name"))
	t.add("PUT", opPut, aIdent("dict"), aKey("key"), aExpr("value"))
	t.add("FETCH", opFetch, aIdent("dict"), aKey("key"), aOut("result"))
	t.add("KEYS", opKeys, aIdent("dict"), aOut("result"))
	t.add("VALUES", opValues, aIdent("dict"), aOut("result"))
	t.add("DELETE", opDelete, aIdent("dict"), aKey("key"))
	t.add("MERGE", opMerge, aIdent("left"), aIdent("right"), aOut("result"))
}

func opDictNew(c *opCtx) error {
	c.bindOut(0, NewDict())
	return nil
}

func opPut(c *opCtx) error {
	d, err := c.dict(0)
	if err != nil {
		return err
	}
	key, err := c.str(1)
	if err != nil {
		return err
	}
	v, err := c.eval(2)
	if err != nil {
		return err
	}
	d.Entries[key] = v
	return nil
}

func opFetch(c *opCtx) error {
	d, err := c.dict(0)
	if err != nil {
		return err
	}
	key, err := c.str(1)
	if err != nil {
		return err
	}
	v, ok := d.Entries[key]
	if !ok {
		return c.errf(ErrKeyNotFound, "key '%s' not found", key)
	}
	c.bindOut(2, v)
	return nil
}

func sortedKeys(d *DictObject) []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func opKeys(c *opCtx) error {
	d, err := c.dict(0)
	if err != nil {
		return err
	}
	keys := sortedKeys(d)
	elems := make([]Value, len(keys))
	for i, k := range keys {
		elems[i] = Str(k)
	}
	c.bindOut(1, Arr(&ArrayObject{Elems: elems}))
	return nil
}

func opValues(c *opCtx) error {
	d, err := c.dict(0)
	if err != nil {
		return err
	}
	keys := sortedKeys(d)
	elems := make([]Value, len(keys))
	for i, k := range keys {
		elems[i] = d.Entries[k]
	}
	c.bindOut(1, Arr(&ArrayObject{Elems: elems}))
	return nil
}

// DELETE of a missing key is a no-op.
func opDelete(c *opCtx) error {
	d, err := c.dict(0)
	if err != nil {
		return err
	}
	key, err := c.str(1)
	if err != nil {
		return err
	}
	delete(d.Entries, key)
	return nil
}

// MERGE builds a new dictionary; on key collisions the right operand
// wins.
func opMerge(c *opCtx) error {
	left, err := c.dict(0)
	if err != nil {
		return err
	}
	right, err := c.dict(1)
	if err != nil {
		return err
	}
	out := make(map[string]Value, len(left.Entries)+len(right.Entries))
	for k, v := range left.Entries {
		out[k] = v
	}
	for k, v := range right.Entries {
		out[k] = v
	}
	c.bindOut(2, Dct(&DictObject{Entries: out}))
	return nil
}
