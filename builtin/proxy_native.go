// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/proxy"
	"github.com/vechain/tokenstake/metrics"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

var metricUpgrades = metrics.LazyLoadCounterVec("proxy_upgrades_count", []string{"program"})

func nativeProxy(env *xenv.Environment) *proxy.Proxy {
	return Proxy.Native(env.To(), env.State(), gascharger.New(env))
}

func programName(env *xenv.Environment, addr thor.Address) string {
	p, ok, err := ProgramAt(env.State(), addr)
	must(env, err)
	if !ok {
		return "unknown"
	}
	return p.Name
}

func initProxyMethods() {
	Proxy.setConstructor(func(env *xenv.Environment) []any {
		must(env, nativeProxy(env).Init(env.Caller()))
		emit(env, Proxy.Program, "AdminChanged", nil, thor.Address{}, env.Caller())
		return nil
	})

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"initialize", func(env *xenv.Environment) []any {
			var args struct {
				Implementation common.Address
			}
			env.ParseArgs(&args)
			impl := thor.Address(args.Implementation)
			must(env, nativeProxy(env).Initialize(env.Caller(), impl))
			emit(env, Proxy.Program, "Upgraded", []thor.Bytes32{addressTopic(impl)})
			return nil
		}},
		{"upgradeTo", func(env *xenv.Environment) []any {
			var args struct {
				NewImplementation common.Address
			}
			env.ParseArgs(&args)
			impl := thor.Address(args.NewImplementation)
			prev, err := nativeProxy(env).UpgradeTo(env.Caller(), impl)
			must(env, err)
			emit(env, Proxy.Program, "Upgraded", []thor.Bytes32{addressTopic(impl)})

			name := programName(env, impl)
			metricUpgrades().AddWithLabel(1, map[string]string{"program": name})
			logger.Debug("proxy upgraded", "proxy", env.To(), "from", prev, "to", impl, "program", name)
			return nil
		}},
		{"changeAdmin", func(env *xenv.Environment) []any {
			var args struct {
				NewAdmin common.Address
			}
			env.ParseArgs(&args)
			prev, err := nativeProxy(env).ChangeAdmin(env.Caller(), thor.Address(args.NewAdmin))
			must(env, err)
			emit(env, Proxy.Program, "AdminChanged", nil, prev, thor.Address(args.NewAdmin))
			return nil
		}},
		{"implementation", func(env *xenv.Environment) []any {
			impl, err := nativeProxy(env).Implementation()
			must(env, err)
			return []any{impl}
		}},
		{"admin", func(env *xenv.Environment) []any {
			admin, err := nativeProxy(env).Admin()
			must(env, err)
			return []any{admin}
		}},
	}
	for _, def := range defines {
		Proxy.define(def.name, def.run)
	}
}
