// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/minuted/core"
)

// MarshalMeeting serializes a Meeting to bytes.
func MarshalMeeting(meeting *core.Meeting) []byte {
	buf := make([]byte, core.MeetingMUS.Size(*meeting))
	core.MeetingMUS.Marshal(*meeting, buf)
	return buf
}

// UnmarshalMeeting deserializes a Meeting from bytes.
func UnmarshalMeeting(data []byte) (*core.Meeting, error) {
	meeting, _, err := core.MeetingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MarshalIngestJob serializes an IngestJob to bytes.
func MarshalIngestJob(job *core.IngestJob) []byte {
	buf := make([]byte, core.IngestJobMUS.Size(*job))
	core.IngestJobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalIngestJob deserializes an IngestJob from bytes.
func UnmarshalIngestJob(data []byte) (*core.IngestJob, error) {
	job, _, err := core.IngestJobMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarshalAskRecord serializes an AskRecord to bytes.
func MarshalAskRecord(record *core.AskRecord) []byte {
	buf := make([]byte, core.AskRecordMUS.Size(*record))
	core.AskRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalAskRecord deserializes an AskRecord from bytes.
func UnmarshalAskRecord(data []byte) (*core.AskRecord, error) {
	record, _, err := core.AskRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
