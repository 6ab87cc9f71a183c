package ws

import (
	json "github.com/json-iterator/go"
)

// NewJSON builds a final Text frame carrying the JSON encoding of the model.
func NewJSON(model any) (*Frame, error) {
	data, err := json.ConfigDefault.Marshal(model)
	if err != nil {
		return nil, err
	}

	return NewTextBytes(data, true), nil
}

// JSON interprets the frame payload as JSON and decodes it into the model.
func (f *Frame) JSON(model any) error {
	iterator := json.ConfigDefault.BorrowIterator(f.Payload())
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}
