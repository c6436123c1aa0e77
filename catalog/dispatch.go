package catalog

import (
	"fmt"

	"github.com/zyncd/zyncd/zyncerr"
)

// DecodeMessage decodes a device-originated frame by its tag. Desktop-
// originated tags are never decoded this way — the desktop builds those
// itself and never needs to parse its own wire form back.
func DecodeMessage(tag Tag, payload []byte) (Message, error) {
	switch tag {
	case TagAAY:
		return DecodeHelloAck(payload)
	case TagAIG:
		return DecodeIdentify(payload)
	case TagAMG:
		return DecodeSyncLogStatus(payload)
	case TagATG:
		return DecodeAnchor(payload)
	case TagASY:
		return DecodeChangesetIDs(payload)
	case TagADI:
		return DecodeSchemaMsg(payload)
	case TagADR:
		return DecodeRecordPayload(payload)
	case TagADW:
		return DecodeIDAssigned(payload)
	case TagAGE:
		return DecodeBulkFragment(payload, true)
	case TagAEX:
		return DecodeActionAck(payload)
	case TagANG:
		return DecodeNegativeAck(payload)
	default:
		return nil, fmt.Errorf("%w: unrecognized tag %q", zyncerr.ErrUnexpectedMessage, tag)
	}
}
