package disasm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// MaxOpSize bounds the size field of both listing formats
const MaxOpSize = math.MaxInt32

// ListingDecoder reads the plain text listing format, one instruction per
// line:
//
//	# comment
//	0x1000 2 1,rax,=          mov
//	0x1002 3 zf,?{,0x40,rip,=,} cjmp
//
// The ESIL field holds no spaces; the optional fourth field is the op type.
type ListingDecoder struct{}

// Decode implements Decoder
func (ListingDecoder) Decode(r io.Reader) (Stream, error) {
	return ReadListing(r)
}

// ReadListing parses the text listing format
func ReadListing(r io.Reader) (Stream, error) {
	var out Stream
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("%w: line %d: want \"addr size esil [type]\", got %d fields", ErrBadListing, line, len(fields))
		}
		addr, err := strconv.ParseUint(fields[0], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: address %q", ErrBadListing, line, fields[0])
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil || size < 0 || size > MaxOpSize {
			return nil, fmt.Errorf("%w: line %d: size %q", ErrBadListing, line, fields[1])
		}
		op := Op{Addr: addr, Size: size, Esil: fields[2]}
		if len(fields) == 4 {
			op.Type = ParseOpType(fields[3])
		}
		out = append(out, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return out, nil
}

// JSONDecoder reads the JSON array printed by rizin's aoj command. Only the
// addr, size, esil, type, jump and fail members are used.
type JSONDecoder struct{}

// Decode implements Decoder
func (JSONDecoder) Decode(r io.Reader) (Stream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json listing: %w", err)
	}
	return ReadJSON(data)
}

// ReadJSON parses an aoj style JSON array
func ReadJSON(data []byte) (Stream, error) {
	var (
		out    Stream
		cbErr  error
		record int
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if cbErr != nil {
			return
		}
		record++
		if err != nil {
			cbErr = err
			return
		}
		if dataType != jsonparser.Object {
			cbErr = fmt.Errorf("%w: record %d is a %s", ErrBadListing, record, dataType)
			return
		}
		op, err := jsonOp(value)
		if err != nil {
			cbErr = fmt.Errorf("%w: record %d: %v", ErrBadListing, record, err)
			return
		}
		out = append(out, op)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadListing, err)
	}
	if cbErr != nil {
		return nil, cbErr
	}
	return out, nil
}

func jsonOp(value []byte) (Op, error) {
	var op Op
	addr, err := jsonUint(value, "addr", true)
	if err != nil {
		return op, err
	}
	size, err := jsonUint(value, "size", true)
	if err != nil {
		return op, err
	}
	if size > MaxOpSize {
		return op, fmt.Errorf("size %d out of range", size)
	}
	op.Addr, op.Size = addr, int(size)

	esil, err := jsonparser.GetString(value, "esil")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return op, fmt.Errorf("esil: %w", err)
	}
	op.Esil = esil
	if typ, err := jsonparser.GetString(value, "type"); err == nil {
		op.Type = ParseOpType(typ)
	}
	if op.Jump, err = jsonUint(value, "jump", false); err != nil {
		return op, err
	}
	if op.Fail, err = jsonUint(value, "fail", false); err != nil {
		return op, err
	}
	return op, nil
}

// jsonUint reads an unsigned number member. rizin prints addresses as
// decimal numbers; strings such as "0x1000" are accepted too.
func jsonUint(value []byte, key string, required bool) (uint64, error) {
	raw, typ, _, err := jsonparser.Get(value, key)
	if err == jsonparser.KeyPathNotFoundError {
		if required {
			return 0, fmt.Errorf("missing %s", key)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	switch typ {
	case jsonparser.Number, jsonparser.String:
		v, err := strconv.ParseUint(string(raw), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an unsigned number", key, raw)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%s: unexpected %s", key, typ)
}
