// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package configx

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// KoanfMemory provides a JSON document held in memory.
type KoanfMemory struct {
	ctx context.Context
	doc json.RawMessage
}

func NewKoanfMemory(ctx context.Context, doc json.RawMessage) *KoanfMemory {
	return &KoanfMemory{ctx: ctx, doc: doc}
}

func (k *KoanfMemory) ReadBytes() ([]byte, error) {
	return nil, errors.New("memory provider does not support this method")
}

func (k *KoanfMemory) Read() (map[string]interface{}, error) {
	if err := k.ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	values := map[string]interface{}{}
	if len(k.doc) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(k.doc, &values); err != nil {
		return nil, errors.WithStack(err)
	}
	return values, nil
}
