package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Codec — malformed wire input (spec §7.2). All Decoder.decode
	// failures surface through one of these.
	CodecInfo                Code = 1000
	CodecUnknownMarker        Code = 1001 // byte prefix is not one of NestedStart/NestedEnd/Seen/Ref/RefSeen
	CodecTruncatedStream      Code = 1002 // stream ended before a declared length/position was satisfied
	CodecDanglingBackref      Code = 1003 // Seen/RefSeen points at a byte offset where no node was recorded
	CodecBytePrefixMismatch   Code = 1004 // declared byte-prefix length doesn't match the bytes actually consumed
	CodecUnterminatedNested   Code = 1005 // NestedStart without a matching NestedEnd before end of stream
	CodecUnexpectedNestedEnd  Code = 1006 // NestedEnd with no open NestedStart
	CodecRefMetadataMismatch  Code = 1007 // ref-meta byte is neither RefMetadata nor RefNoMetadata
	CodecPositionOverflow     Code = 1008 // a length or position did not fit the wire's integer width
	CodecMaxDepthExceeded     Code = 1009 // nested structure exceeded codec.Profile.MaxDepth
	CodecUnresolvedForwardRef Code = 1010 // Ref resolved to a position never marked Seen by end of decode
	CodecIOError              Code = 1011 // sink/source I/O failure during Encode or Decode
	CodecUnknownTermKind      Code = 1012 // decoded header names a term.Kind/abt.Kind this build does not recognize
	CodecTermShapeMismatch    Code = 1013 // decoded child count or shape does not match what the header declared

	// Cache — termcodec.Cache disk I/O and schema/digest mismatches. A
	// missing entry is a plain (nil-error) miss, but a present-and-unusable
	// one is reported as a diag.Diagnostic rather than silently treated as
	// a miss, since it indicates a real problem worth surfacing.
	CacheInfo           Code = 2000
	CacheSchemaMismatch Code = 2001 // on-disk payload's schema version doesn't match the running binary's
	CacheCorruptPayload Code = 2002 // msgpack decode of a cached entry failed
	CacheDigestMismatch Code = 2003 // cached payload's stored graph doesn't match its own digest field

	// Observability — informational codes attached to trace/observ
	// reports rather than failures.
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	CodecInfo:                 "Codec information",
	CodecUnknownMarker:        "Unknown byte-prefix marker",
	CodecTruncatedStream:      "Stream truncated before declared length was satisfied",
	CodecDanglingBackref:      "Back-reference points outside the decoded prefix",
	CodecBytePrefixMismatch:   "Declared byte-prefix length does not match bytes consumed",
	CodecUnterminatedNested:   "Nested structure missing its closing marker",
	CodecUnexpectedNestedEnd:  "Closing marker with no matching open nested structure",
	CodecRefMetadataMismatch:  "Invalid reference-metadata marker byte",
	CodecPositionOverflow:     "Position or length does not fit the wire's integer width",
	CodecMaxDepthExceeded:     "Nested structure exceeded the configured maximum depth",
	CodecUnresolvedForwardRef: "Reference never resolved to a decoded node",
	CodecIOError:              "I/O failure while reading or writing the wire stream",
	CodecUnknownTermKind:      "Decoded header names an unrecognized term shape",
	CodecTermShapeMismatch:    "Decoded children do not match the declared term shape",
	CacheInfo:                 "Cache information",
	CacheSchemaMismatch:       "Cached payload schema version mismatch",
	CacheCorruptPayload:       "Cached payload failed to decode",
	CacheDigestMismatch:       "Cached payload's stored graph does not match its digest",
	ObsInfo:                   "Observability information",
	ObsTimings:                "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("COD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CAC%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
