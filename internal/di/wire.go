// Copyright 2024 The ReadySet Authors
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
//
// SPDX-License-Identifier: Apache-2.0

//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"github.com/readysetio/flowcore/internal/transport"
)

// NewService builds a Service by wiring together this package's
// provider set.
func NewService(ctx context.Context, cfg transport.Config) (*Service, error) {
	panic(wire.Build(Set, wire.Struct(new(Service), "*")))
}
