package device

// Vendor-request register IDs of the CP210x configuration interface.
// These are the chip's documented values and must not change.
const (
	// RequestConfig is the vendor request number carrying every register
	// access.
	RequestConfig = 0xFF

	RegVendorID      = 0x3701
	RegProductID     = 0x3702
	RegProductString = 0x3703
	RegSerialNumber  = 0x3704
	RegCfgAttributes = 0x3705
	RegMaxPower      = 0x3706
	RegVersion       = 0x3707
	RegUnknown       = 0x3708
	RegEEPROM        = 0x3709
	RegLockValue     = 0x370A
	RegPartNumber    = 0x370B
)

// Default USB identity of an unprogrammed CP210x.
const (
	VendorSilabs  = 0x10C4
	ProductCP210x = 0xEA60
)

// Part numbers reported by RegPartNumber.
const (
	PartCP2101 = 1
	PartCP2102 = 2
	PartCP2103 = 3
)
