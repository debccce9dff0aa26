package codec

import "github.com/nilotpal-labs/ignitekv/pkg/errors"

// CommandOp tags which operation a Command represents.
type CommandOp string

const (
	OpSet    CommandOp = "Set"
	OpRemove CommandOp = "Remove"
)

// Command is the persisted, tagged representation of a mutation. Every
// line in a segment file decodes to exactly one Command.
type Command struct {
	Op    CommandOp
	Key   string
	Value string // only meaningful when Op == OpSet
}

// EncodeCommand renders cmd as one VARIANT structure. The caller is
// responsible for appending the newline that terminates a segment record;
// this function returns only the grammar's structure bytes.
func EncodeCommand(cmd Command) []byte {
	e := &encoder{}
	switch cmd.Op {
	case OpSet:
		e.openVariant(string(OpSet))
		e.writeStringField("key", cmd.Key)
		e.writeStringField("value", cmd.Value)
		e.closeStruct()
	case OpRemove:
		e.openVariant(string(OpRemove))
		e.writeStringField("key", cmd.Key)
		e.closeStruct()
	default:
		panic("codec: unknown command op " + string(cmd.Op))
	}
	return e.bytes()
}

// DecodeCommand parses exactly one Command from data, which must not
// include the trailing newline used to delimit records on disk, and
// rejects any bytes left over once the structure is fully read.
func DecodeCommand(data []byte) (Command, error) {
	d := newDecoder(data)
	cmd, err := decodeCommandBody(d)
	if err != nil {
		return Command{}, err
	}
	if err := d.checkNoTrailing(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// DecodeCommandPrefix parses exactly one Command from the start of data
// and reports how many bytes it consumed, without requiring data to end
// there. Replay uses this to walk a segment record by record without a
// separate length table, skipping the single newline byte that follows
// each record on disk.
func DecodeCommandPrefix(data []byte) (Command, int, error) {
	d := newDecoder(data)
	cmd, err := decodeCommandBody(d)
	if err != nil {
		return Command{}, 0, err
	}
	return cmd, d.pos, nil
}

func decodeCommandBody(d *decoder) (Command, error) {
	tag, err := d.readTag()
	if err != nil {
		return Command{}, err
	}

	var cmd Command
	switch CommandOp(tag) {
	case OpSet:
		key, err := d.expectStringField("key")
		if err != nil {
			return Command{}, err
		}
		value, err := d.expectStringField("value")
		if err != nil {
			return Command{}, err
		}
		cmd = Command{Op: OpSet, Key: key, Value: value}
	case OpRemove:
		key, err := d.expectStringField("key")
		if err != nil {
			return Command{}, err
		}
		cmd = Command{Op: OpRemove, Key: key}
	default:
		return Command{}, errors.NewCodecError(
			nil, errors.ErrorCodeCodec, "unrecognized command tag",
		).WithFragment(tag).WithExpected("Set or Remove")
	}

	if err := d.closeBody(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}
