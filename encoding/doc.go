// Package encoding packs typed values into byte buffers and unpacks them back,
// driven by the format strings of package format.
//
// # Packing
//
// Pack writes one field per directive starting at a 1-based position:
//
//	buf := make([]byte, 12)
//	res, err := encoding.Pack(buf, 1, "<!4 i x i", encoding.Int(1), encoding.Int(2))
//	// res.Complete == true, res.Next == 13
//
// Running out of room is not an error. Pack stops at the first field that
// does not fit and reports how far it got in PackResult, leaving the bytes
// already written in place. Invalid arguments and malformed formats are
// returned as errors wrapping the sentinels of package errs.
//
// # Unpacking
//
//	vals, next, err := encoding.Unpack(buf, 1, "<!4 i x i")
//	// vals[0].Int() == 1, vals[1].Int() == 2, next == 13
//
// Unpack either decodes the whole format or fails without results.
//
// # Growing Buffers
//
// Writer appends successive Pack calls to a resizable memory object,
// growing it whenever a call reports partial progress:
//
//	m, _ := memory.NewResizable()
//	w, _ := encoding.NewWriter(m, nil)
//	_ = w.Pack("<j s1", encoding.Int(42), encoding.String("hi"))
//	data := w.Bytes()
//
// # Thread Safety
//
// Packer is immutable after construction and safe for concurrent use.
// Writer is not.
package encoding
