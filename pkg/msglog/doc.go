/*
Package msglog implements an append-only journal for encoded messages.

A journal file is a sequence of records with no file header. Each
record looks like
  +-----------------+---------------+--------------+---------+
  | 4-byte length   | 4-byte hash   | 1-byte flags | payload |
  +-----------------+---------------+--------------+---------+

  length:
    number of payload bytes that follow the flags byte,
    big-endian
  hash:
    murmur3 of the payload bytes as stored, big-endian
  flags:
    bit 0 set when the payload is snappy-compressed

The hash covers the stored payload, so corruption is detected before
any decompression is attempted. A payload is stored compressed only
when compression actually shrinks it.
*/
package msglog
