package realtime

import "testing"

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, ev Event)
	}{
		{
			"speech started",
			`{"type":"input_audio_buffer.speech_started"}`,
			func(t *testing.T, ev Event) {
				if _, ok := ev.(SpeechStarted); !ok {
					t.Errorf("got %T", ev)
				}
			},
		},
		{
			"transcription completed",
			`{"type":"conversation.item.input_audio_transcription.completed","item_id":"it_1","transcript":"hello there"}`,
			func(t *testing.T, ev Event) {
				tc, ok := ev.(InputTranscriptionCompleted)
				if !ok {
					t.Fatalf("got %T", ev)
				}
				if tc.Transcript != "hello there" || tc.ItemId != "it_1" {
					t.Errorf("fields: %+v", tc)
				}
			},
		},
		{
			"response lifecycle",
			`{"type":"response.created","response":{"id":"resp_9"}}`,
			func(t *testing.T, ev Event) {
				rc, ok := ev.(ResponseCreated)
				if !ok || rc.ResponseId != "resp_9" {
					t.Errorf("got %T %+v", ev, ev)
				}
			},
		},
		{
			"audio delta",
			`{"type":"response.audio.delta","delta":"QUJD"}`,
			func(t *testing.T, ev Event) {
				ad, ok := ev.(AudioDelta)
				if !ok || ad.Delta != "QUJD" {
					t.Errorf("got %T %+v", ev, ev)
				}
			},
		},
		{
			"function call arguments done",
			`{"type":"response.function_call_arguments.done","call_id":"c1","name":"request_visualization","arguments":"{\"vis_type\":\"chart\"}"}`,
			func(t *testing.T, ev Event) {
				fc, ok := ev.(FunctionCallArgumentsDone)
				if !ok {
					t.Fatalf("got %T", ev)
				}
				if fc.CallId != "c1" || fc.Name != "request_visualization" {
					t.Errorf("fields: %+v", fc)
				}
			},
		},
		{
			"error",
			`{"type":"error","error":{"message":"boom"}}`,
			func(t *testing.T, ev Event) {
				ee, ok := ev.(ErrorEvent)
				if !ok || ee.Message != "boom" {
					t.Errorf("got %T %+v", ev, ev)
				}
			},
		},
		{
			"unknown type",
			`{"type":"rate_limits.updated"}`,
			func(t *testing.T, ev Event) {
				u, ok := ev.(Unknown)
				if !ok || u.Type != "rate_limits.updated" {
					t.Errorf("got %T %+v", ev, ev)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, ev)
		})
	}
}

func TestParseEventInvalidJSON(t *testing.T) {
	if _, err := ParseEvent([]byte(`{not json`)); err == nil {
		t.Fatal("expected error")
	}
}
