package codec

import "github.com/nilotpal-labs/ignitekv/pkg/errors"

// RequestOp tags which operation a Request represents.
type RequestOp string

const (
	ReqSet RequestOp = "Set"
	ReqGet RequestOp = "Get"
	ReqRm  RequestOp = "Rm"
)

// Request is a client-to-server message.
type Request struct {
	Op    RequestOp
	Key   string
	Value string // only meaningful when Op == ReqSet
}

// EncodeRequest renders req as one VARIANT structure.
func EncodeRequest(req Request) []byte {
	e := &encoder{}
	switch req.Op {
	case ReqSet:
		e.openVariant(string(ReqSet))
		e.writeStringField("key", req.Key)
		e.writeStringField("value", req.Value)
		e.closeStruct()
	case ReqGet:
		e.openVariant(string(ReqGet))
		e.writeStringField("key", req.Key)
		e.closeStruct()
	case ReqRm:
		e.openVariant(string(ReqRm))
		e.writeStringField("key", req.Key)
		e.closeStruct()
	default:
		panic("codec: unknown request op " + string(req.Op))
	}
	return e.bytes()
}

// DecodeRequest parses exactly one Request from data.
func DecodeRequest(data []byte) (Request, error) {
	d := newDecoder(data)

	tag, err := d.readTag()
	if err != nil {
		return Request{}, err
	}

	var req Request
	switch RequestOp(tag) {
	case ReqSet:
		key, err := d.expectStringField("key")
		if err != nil {
			return Request{}, err
		}
		value, err := d.expectStringField("value")
		if err != nil {
			return Request{}, err
		}
		req = Request{Op: ReqSet, Key: key, Value: value}
	case ReqGet:
		key, err := d.expectStringField("key")
		if err != nil {
			return Request{}, err
		}
		req = Request{Op: ReqGet, Key: key}
	case ReqRm:
		key, err := d.expectStringField("key")
		if err != nil {
			return Request{}, err
		}
		req = Request{Op: ReqRm, Key: key}
	default:
		return Request{}, errors.NewCodecError(
			nil, errors.ErrorCodeCodec, "unrecognized request tag",
		).WithFragment(tag).WithExpected("Set, Get, or Rm")
	}

	if err := d.finish(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Response is a server-to-client message.
type Response struct {
	Success bool
	Result  *string // Some(value) on a get hit, None otherwise; unused on Fail
	Message string  // only meaningful when Success == false
}

// EncodeResponse renders resp as one VARIANT structure.
func EncodeResponse(resp Response) []byte {
	e := &encoder{}
	if resp.Success {
		e.openVariant("Success")
		e.writeOptionField("result", resp.Result)
		e.closeStruct()
	} else {
		e.openVariant("Fail")
		e.writeStringField("message", resp.Message)
		e.closeStruct()
	}
	return e.bytes()
}

// DecodeResponse parses exactly one Response from data.
func DecodeResponse(data []byte) (Response, error) {
	d := newDecoder(data)

	tag, err := d.readTag()
	if err != nil {
		return Response{}, err
	}

	var resp Response
	switch tag {
	case "Success":
		result, err := d.expectOptionField("result")
		if err != nil {
			return Response{}, err
		}
		resp = Response{Success: true, Result: result}
	case "Fail":
		message, err := d.expectStringField("message")
		if err != nil {
			return Response{}, err
		}
		resp = Response{Success: false, Message: message}
	default:
		return Response{}, errors.NewCodecError(
			nil, errors.ErrorCodeCodec, "unrecognized response tag",
		).WithFragment(tag).WithExpected("Success or Fail")
	}

	if err := d.finish(); err != nil {
		return Response{}, err
	}
	return resp, nil
}
