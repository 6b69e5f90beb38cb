package oracles

import "github.com/ethereum/go-ethereum/common"

// MainnetTable returns the feed table for Ethereum mainnet.
func MainnetTable() Table {
	t := make(Table)
	add := func(category Category, hexes ...string) {
		for _, h := range hexes {
			t[common.HexToAddress(h)] = category
		}
	}

	add(EACProxy,
		"0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419", // ETH/USD
		"0xCd627aA160A6fA45Eb793D19Ef54f5062F20f33f",
		"0xec1D1B3b0443256cc3860e24a46F108e699484Aa",
		"0xDC3EA94CD0AC27d9A86C180091e7f78C683d3699",
		"0xdF2917806E30300537aEB49A7663062F4d1F2b5F",
		"0x553303d460EE0afB37EdFf9bE42922D8FF63220e",
		"0x5C00128d4d1c2F4f652C267d7bcdD7aC99C16E16",
		"0xc929ad75B72593967DE83E7F7Cda0493458261D9",
		"0x4E155eD98aFE9034b7A5962f6C84c86d869daA9d",
		"0x7A9f34a0Aa917D438e9b6E630067062B7F8f6f3d",
		"0xf8fF43E991A81e6eC886a3D281A2C6cC19aE70Fc",
		"0x6Ebc52C8C1089be9eB3945C4350B68B8E4C2233f",
		"0xF4030086522a5bEEa4988F8cA5B36dbC97BeE88c", // BTC/USD
		"0xC7e9b623ed51F033b32AE7f1282b1AD62C28C183",
		"0xF02C1e2A3B77c1cacC72f72B44f7d0a4c62e4a85",
		"0xb41E773f507F7a7EA890b1afB7d2b660c30C8B0A",
	)

	add(StableCapAdapter,
		"0x736bF902680e68989886e9807CD7Db4B3E015d3C", // USDC
		"0x4F01b76391A05d32B20FA2d05dD5963eE8db20E6",
		"0xaEb897E1Dc6BbdceD3B9D551C71a8cf172F27AC4",
		"0xC26D4a1c46d884cfF6dE9800B6aE7A8Cf48B4Ff8",
		"0x45D270263BBee500CF8adcf2AbC0aC227097b036",
		"0x02AeE5b225366302339748951E1a924617b8814F",
		"0x150bAe7Ce224555D39AfdBc6Cb4B8204E594E022",
		"0x9eCdfaCca946614cc32aF63F3DBe50959244F3af",
		"0xf0eaC18E908B34770FDEe46d069c846bDa866759",
	)

	add(CapAdapter,
		"0x6243d2F41b4ec944F731f647589E28d9745a2674", // cbETH
		"0xB4aB0c94159bc2d8C133946E7241368fc2F2a010", // wstETH
		"0xf112aF6F0A332B815fbEf3Ff932c057E570b62d3", // weETH
		"0x5AE8365D0a30D67145f0c55A08760C250559dB64", // rETH
		"0x0A2AF898cEc35197e6944D9E0F525C2626393442", // osETH
		"0xD6270dAabFe4862306190298C2B48fed9e15C847", // ETHx
		"0x47F52B2e43D0386cF161e001835b03Ad49889e3b", // rsETH
		"0x95a85D0d2f3115702d813549a80040387738A430", // eBTC
		"0x42bc86f2f08419280a99d8fbEa4672e7c30a86ec", // sUSDe
	)

	add(PegAdapter,
		"0x230E0321Cf38F09e247e50Afc7801EA2351fe56F",
		"0xb01e6C9af83879B8e06a092f0DD94309c0D497E4",
	)

	add(YieldAdapter,
		"0x29081f7aB5a644716EfcDC10D5c926c5fEe9F72B", // sDAI
	)

	add(Passthrough,
		"0xD110cac5d8682A3b045D5524a9903E031d70FCCd", // GHO, fixed at $1
	)

	return t
}
