package format

// C long stays 4 bytes on 64-bit Windows.
const sizeLong = 4
