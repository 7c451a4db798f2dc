// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coda

// Canonical ordinals for built-in types. These identify a value's
// type when it must be self-describing — inside a Type descriptor or
// an Unspecified dynamic value — and are otherwise unused by the
// static codecs in types_*.go, which always encode their element
// type's ordinal as 0 because both encoder and decoder already agree
// on it out of band.
//
// User-defined record types occupy 1..240. Built-ins count down from
// 255 to 241 so the two ranges never collide.
const (
	OrdinalUnspecified uint8 = 0

	OrdinalU8  uint8 = 255
	OrdinalU16 uint8 = 254
	OrdinalU32 uint8 = 253
	OrdinalU64 uint8 = 252

	OrdinalI8  uint8 = 251
	OrdinalI16 uint8 = 250
	OrdinalI32 uint8 = 249
	OrdinalI64 uint8 = 248

	OrdinalF32 uint8 = 247
	OrdinalF64 uint8 = 246

	OrdinalBool uint8 = 245
	OrdinalText uint8 = 244

	// OrdinalDataDescriptor tags the Type codec's own self-description
	// of a user-defined Data type.
	OrdinalDataDescriptor uint8 = 243

	OrdinalList uint8 = 242
	OrdinalMap  uint8 = 241
)
