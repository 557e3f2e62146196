/*
Package fix implements a FIX-style tag-value message codec.

Wire format

Every field is the decimal tag, '=', the raw value bytes, and a SOH
delimiter (byte 0x01, shown as | below)

  +-----+---+-------+-----+
  | tag | = | value | SOH |
  +-----+---+-------+-----+

A message is a sequence of fields with a fixed frame around the body

  8=FIX.4.2|9=38|35=D|49=SENDER|56=TARGET|34=1|11=ORD1|10=083|

  +----------------+----------------+--------------------+-----------+
  | BeginString(8) | BodyLength(9)  | body               | CheckSum  |
  |                |                |                    | (10)      |
  +----------------+----------------+--------------------+-----------+

  BeginString(8)
    protocol version string, first field on the wire
  BodyLength(9)
    decimal byte count of the body, without padding. The body starts
    after the BodyLength field's SOH and ends before the "10=" of the
    checksum field. MsgType(35) is always the first body field.
  CheckSum(10)
    sum of every preceding byte of the message modulo 256, rendered as
    exactly three zero-padded digits. Always the last field; its wire
    form is exactly 7 bytes.

Encoding requires BeginString(8) and MsgType(35) to be present and
computes BodyLength(9) and CheckSum(10). Decoding requires the three
header fields in order, parses the remaining fields, and validates the
checksum.

Messages and fields are plain values. Encode and Decode share no state,
so distinct messages may be encoded and decoded concurrently without
synchronization.
*/
package fix
