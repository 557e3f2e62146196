package main

import (
	"math/rand"
	"strconv"
	"time"

	uuid "github.com/satori/go.uuid"

	"fixcodec/pkg/fix"
)

const kValueCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generated body fields start at this tag, clear of the standard
// header and trailer tags.
const kFirstBodyTag uint32 = 5000

var kLoadMsgTypes = [...]string{
	fix.MsgTypeNewOrderSingle,
	fix.MsgTypeExecutionReport,
	fix.MsgTypeHeartbeat,
}

type (
	RandomGen struct {
		values      []byte
		randNum     *rand.Rand
		valueLen    int
		numFields   int
		beginString string
		sender      string
		target      string
		tp          int
		seq         int
		isVariable  bool
	}
)

func NewRandomGen(conf *Config, id int) *RandomGen {
	// Value pool thrice the configured length; values are slices at a
	// random offset, so the charset keeps them free of SOH.
	values := make([]byte, conf.ValueLen*3)
	for i := range values {
		values[i] = kValueCharset[rand.Intn(len(kValueCharset))]
	}

	seed := rand.NewSource(time.Now().UnixNano() + int64(id))
	return &RandomGen{
		values:      values,
		randNum:     rand.New(seed),
		valueLen:    conf.ValueLen,
		numFields:   conf.NumBodyFields,
		beginString: conf.BeginString,
		sender:      conf.SenderCompID,
		target:      conf.TargetCompID,
		tp:          conf.NumReqPerSecond,
		isVariable:  conf.isVariable,
	}
}

// NextMessage builds a full order-style message: the standard header
// fields, a time-ordered ClOrdID and numFields generated body fields.
func (g *RandomGen) NextMessage() *fix.Message {
	g.seq++
	msg := fix.NewMessageWithCapacity(7 + g.numFields)
	msg.AddField(fix.NewField(fix.TagBeginString, []byte(g.beginString)))
	msg.AddField(fix.NewField(fix.TagMsgType, []byte(g.nextMsgType())))
	msg.AddField(fix.NewField(fix.TagSenderCompID, []byte(g.sender)))
	msg.AddField(fix.NewField(fix.TagTargetCompID, []byte(g.target)))
	msg.AddField(fix.NewField(fix.TagMsgSeqNum, []byte(strconv.Itoa(g.seq))))
	msg.AddField(fix.NewField(fix.TagSendingTime, []byte(time.Now().UTC().Format("20060102-15:04:05.000"))))
	msg.AddField(fix.NewField(fix.TagClOrdID, []byte(uuid.NewV1().String())))
	for i := 0; i < g.numFields; i++ {
		msg.AddField(fix.NewField(kFirstBodyTag+uint32(i), g.createValue()))
	}
	return msg
}

func (g *RandomGen) nextMsgType() string {
	return kLoadMsgTypes[g.randNum.Intn(len(kLoadMsgTypes))]
}

func (g *RandomGen) createValue() []byte {
	start := g.randNum.Intn(g.valueLen)
	var end int
	if g.isVariable {
		// Random length following a normal distribution with mean
		// valueLen and standard deviation of 30% of valueLen
		length := int(g.randNum.NormFloat64()*float64(g.valueLen)*0.3 + float64(g.valueLen))
		if length < 0 {
			length *= -1
		}
		if length > 2*g.valueLen {
			length = 2 * g.valueLen
		}
		end = start + length
	} else {
		end = start + g.valueLen
	}
	return g.values[start:end]
}

func (g *RandomGen) getThroughPut() int {
	var tp int
	if g.isVariable {
		tp = int(g.randNum.NormFloat64()*float64(g.tp)*0.3 + float64(g.tp))
		if tp < 1 {
			tp = 1
		}
	} else {
		tp = g.tp
	}
	return tp
}
