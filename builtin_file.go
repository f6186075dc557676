// builtin_file.go: file operations
//
// All four go through the interpreter's FileSystem, so embedders and
// tests can run them against an in-memory store. Failures surface as
// IOError, which TRY/CATCH can intercept like any other runtime error.
package anubhav

func registerFileOps(t OpTable) {
	t.add("READ_FILE", opReadFile, aStr("path"), aOut("result"))
	t.add("WRITE_FILE", opWriteFile, aStr("path"), aExpr("content"))
	t.add("APPEND_FILE", opAppendFile, aStr("path"), aExpr("content"))
	t.add("EXISTS", opExists, aStr("path"), aOut("result"))
}

func opReadFile(c *opCtx) error {
	path, err := c.str(0)
	if err != nil {
		return err
	}
	content, rerr := c.in.fs.ReadFile(path)
	if rerr != nil {
		return c.errf(ErrIO, "cannot read '%s': %v", path, rerr)
	}
	c.bindOut(1, Str(content))
	return nil
}

// fileContent stringifies the content argument, so numbers and arrays
// can be written without an explicit TO_STRING.
func (c *opCtx) fileContent(i int) (string, error) {
	v, err := c.eval(i)
	if err != nil {
		return "", err
	}
	return v.Stringify(), nil
}

func opWriteFile(c *opCtx) error {
	path, err := c.str(0)
	if err != nil {
		return err
	}
	content, err := c.fileContent(1)
	if err != nil {
		return err
	}
	if werr := c.in.fs.WriteFile(path, content); werr != nil {
		return c.errf(ErrIO, "cannot write '%s': %v", path, werr)
	}
	return nil
}

func opAppendFile(c *opCtx) error {
	path, err := c.str(0)
	if err != nil {
		return err
	}
	content, err := c.fileContent(1)
	if err != nil {
		return err
	}
	if werr := c.in.fs.AppendFile(path, content); werr != nil {
		return c.errf(ErrIO, "cannot append to '%s': %v", path, werr)
	}
	return nil
}

func opExists(c *opCtx) error {
	path, err := c.str(0)
	if err != nil {
		return err
	}
	c.bindOut(1, boolNum(c.in.fs.Exists(path)))
	return nil
}
