package zephpost

import (
	"reflect"
	"testing"
)

const testHostname = "test.example.com"

var (
	alice = MailboxAddress{LocalPart: "alice", Domain: "example.com"}
	bob   = MailboxAddress{LocalPart: "bob", Domain: "example.org"}
	carol = MailboxAddress{LocalPart: "carol", Domain: "example.net"}
)

// apply runs cmds against s and returns the reply lines.
func apply(s *Session, cmds ...Command) []string {
	replies := make([]string, len(cmds))
	for i, cmd := range cmds {
		replies[i] = s.Apply(cmd, testHostname).Response.String()
	}
	return replies
}

func TestSession_StateTable(t *testing.T) {
	const (
		okReply  = "250 OK"
		greeting = "250 " + testHostname
		badSeq   = "503 LogicalError: Bad sequence of commands"
	)

	testCases := []struct {
		name      string
		setup     []Command
		cmd       Command
		wantReply string
		wantState SessionState
	}{
		{"helo from initial", nil, Helo{Domain: "c"}, greeting, StateGreeted},
		{"ehlo from initial", nil, Ehlo{Domain: "c"}, greeting, StateGreeted},
		{"mail before helo", nil, Mail{From: alice}, badSeq, StateInitial},
		{"rcpt before helo", nil, Rcpt{To: bob}, badSeq, StateInitial},
		{"rset before helo", nil, Rset{}, okReply, StateInitial},
		{"noop before helo", nil, Noop{}, okReply, StateInitial},
		{"mail after helo", []Command{Helo{Domain: "c"}}, Mail{From: alice}, okReply, StateSenderSet},
		{"rcpt without sender", []Command{Helo{Domain: "c"}}, Rcpt{To: bob}, badSeq, StateGreeted},
		{"rcpt after mail", []Command{Helo{Domain: "c"}, Mail{From: alice}}, Rcpt{To: bob}, okReply, StateRecipientsSet},
		{"second rcpt", []Command{Helo{Domain: "c"}, Mail{From: alice}, Rcpt{To: bob}}, Rcpt{To: carol}, okReply, StateRecipientsSet},
		{"mail restarts transaction", []Command{Ehlo{Domain: "c"}, Mail{From: alice}, Rcpt{To: bob}}, Mail{From: carol}, okReply, StateSenderSet},
		{"rset keeps greeting", []Command{Ehlo{Domain: "c"}, Mail{From: alice}, Rcpt{To: bob}}, Rset{}, okReply, StateGreeted},
		{"helo resets transaction", []Command{Ehlo{Domain: "c"}, Mail{From: alice}, Rcpt{To: bob}}, Helo{Domain: "d"}, greeting, StateGreeted},
		{"noop keeps state", []Command{Ehlo{Domain: "c"}, Mail{From: alice}}, Noop{}, okReply, StateSenderSet},
		{"invalid keeps state", []Command{Ehlo{Domain: "c"}, Mail{From: alice}}, Invalid{Err: ErrWrongArgument},
			"501 SyntaxError: Wrong parameters or arguments", StateSenderSet},
		{"quit", []Command{Ehlo{Domain: "c"}}, Quit{}, "221 Bye", StateGreeted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s Session
			apply(&s, tc.setup...)

			got := s.Apply(tc.cmd, testHostname)
			if got.Response.String() != tc.wantReply {
				t.Errorf("reply = %q, want %q", got.Response.String(), tc.wantReply)
			}
			if s.State() != tc.wantState {
				t.Errorf("state = %s, want %s", s.State(), tc.wantState)
			}
			_, isQuit := tc.cmd.(Quit)
			if got.Quit != isQuit {
				t.Errorf("Quit = %v, want %v", got.Quit, isQuit)
			}
		})
	}
}

func TestSession_Invariants(t *testing.T) {
	cmds := []Command{
		Mail{From: alice}, Rcpt{To: bob}, Helo{Domain: "a"}, Rcpt{To: bob},
		Mail{From: alice}, Rcpt{To: bob}, Rset{}, Rcpt{To: carol}, Mail{From: carol},
		Ehlo{Domain: "b"}, Invalid{Err: ErrUnrecognizedCommand}, Noop{}, Mail{From: bob},
		Rcpt{To: alice}, Rcpt{To: alice},
	}

	var s Session
	for i, cmd := range cmds {
		s.Apply(cmd, testHostname)
		if len(s.Recipients) > 0 && s.Sender == nil {
			t.Fatalf("step %d (%T): recipients without sender", i, cmd)
		}
		if s.Sender != nil && !s.Greeted {
			t.Fatalf("step %d (%T): sender without greeting", i, cmd)
		}
		if len(s.Data) != 0 {
			t.Fatalf("step %d (%T): data not empty", i, cmd)
		}
	}

	want := []MailboxAddress{alice, alice}
	if !reflect.DeepEqual(s.Recipients, want) {
		t.Errorf("recipients = %v, want duplicates kept in order %v", s.Recipients, want)
	}
}

func TestSession_MailResetsRecipients(t *testing.T) {
	var s Session
	apply(&s, Ehlo{Domain: "c"}, Mail{From: alice}, Rcpt{To: bob}, Rcpt{To: carol}, Mail{From: carol})

	if s.Sender == nil || *s.Sender != carol {
		t.Errorf("sender = %v, want %v", s.Sender, carol)
	}
	if len(s.Recipients) != 0 {
		t.Errorf("recipients = %v, want none", s.Recipients)
	}
}

func TestSession_RcptAfterRsetRejected(t *testing.T) {
	var s Session
	replies := apply(&s, Helo{Domain: "c"}, Mail{From: alice}, Rset{}, Rcpt{To: bob})
	if replies[3] != ErrBadSequence.Error() {
		t.Errorf("reply = %q, want %q", replies[3], ErrBadSequence.Error())
	}
}

func TestSession_Envelope(t *testing.T) {
	var s Session
	if _, ok := s.Envelope(); ok {
		t.Fatal("expected no envelope before MAIL")
	}

	apply(&s, Ehlo{Domain: "client.test"}, Mail{From: alice}, Rcpt{To: bob})
	env, ok := s.Envelope()
	if !ok {
		t.Fatal("expected envelope after MAIL")
	}
	want := Envelope{Helo: "client.test", From: alice, To: []MailboxAddress{bob}}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("envelope = %+v, want %+v", env, want)
	}

	// The snapshot must not alias the session.
	apply(&s, Rcpt{To: carol})
	if len(env.To) != 1 {
		t.Errorf("snapshot changed after RCPT: %v", env.To)
	}
}

func TestSessionState_String(t *testing.T) {
	testCases := []struct {
		state SessionState
		want  string
	}{
		{StateInitial, "INITIAL"},
		{StateGreeted, "GREETED"},
		{StateSenderSet, "SENDER_SET"},
		{StateRecipientsSet, "RECIPIENTS_SET"},
		{SessionState(99), "UNKNOWN"},
	}
	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
